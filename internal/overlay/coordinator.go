package overlay

import (
	"log/slog"
	"maps"
	"sync"
	"time"
)

// DefaultGuard は同じオーバーレイの連続オープンを抑止する時間。
const DefaultGuard = 300 * time.Millisecond

// Payload はオーバーレイを開くときに渡すコンテキスト（例: 操作ユーザー）。
type Payload map[string]any

// State はオーバーレイ状態のスナップショット。
type State struct {
	Active        Name
	Payload       Payload
	HistoryLinked bool
}

// IsOpen はnameが表示中かどうかを返す。
func (s State) IsOpen(name Name) bool {
	return name != None && s.Active == name
}

// Option はCoordinatorの生成オプション。
type Option func(*Coordinator)

// WithHistory は同期するナビゲーション履歴を設定する。
func WithHistory(h History) Option {
	return func(c *Coordinator) { c.history = h }
}

// WithGuard は連続オープン抑止の時間を設定する。0以下で無効。
func WithGuard(d time.Duration) Option {
	return func(c *Coordinator) { c.guard = d }
}

// WithClock は現在時刻の取得関数を差し替える。テスト用。
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithLogger は診断ログの出力先を設定する。
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// Coordinator は表示中のオーバーレイを唯一の状態として保持する。
//
// 状態を変更するのはOpen、Close、HandleNavigation、Resetのみ。
// 履歴への書き込みと購読者への通知はロックを解放した後に行う。
type Coordinator struct {
	mu    sync.Mutex
	state State

	// awaitingEcho はClose時のBackによる移動通知を1回だけ無視するためのフラグ。
	awaitingEcho bool
	lastOpened   Name
	lastOpenedAt time.Time

	history  History
	unlisten func()
	guard    time.Duration
	now      func() time.Time
	logger   *slog.Logger

	subscribers map[int]func(State)
	nextSubID   int
}

// New はオーバーレイが閉じた状態のCoordinatorを生成する。
// 履歴が設定されている場合、その移動通知を購読する。
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		guard:       DefaultGuard,
		now:         time.Now,
		logger:      slog.Default(),
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.history != nil {
		c.unlisten = c.history.Listen(c.HandleNavigation)
	}
	return c
}

// Open はnameのオーバーレイを開く。
//
// linkToHistoryがtrueの場合、/create または /create/<name> を履歴に追加する。
// 既に別のオーバーレイが履歴付きで開いている場合は追加せず置き換える。
// 表示中と同じname、またはガード時間内に開いたばかりのnameは何もしない。
// ガードは履歴の移動で閉じられた場合にだけ働き、Closeで閉じた後は解除される。
// 未定義のnameは診断ログを出してErrUnknownOverlayを返す。
func (c *Coordinator) Open(name Name, payload Payload, linkToHistory bool) error {
	path, err := PathFor(name)
	if err != nil || name == None {
		c.logger.Warn("ignored request to open unknown overlay", slog.String("name", string(name)))
		return ErrUnknownOverlay
	}

	c.mu.Lock()
	now := c.now()
	if c.state.Active == name {
		c.mu.Unlock()
		return nil
	}
	if c.guard > 0 && c.lastOpened == name && now.Sub(c.lastOpenedAt) < c.guard {
		c.mu.Unlock()
		c.logger.Debug("debounced repeated overlay open", slog.String("name", string(name)))
		return nil
	}

	replace := c.state.HistoryLinked && c.state.Active != None
	h := c.history
	c.state = State{
		Active:        name,
		Payload:       maps.Clone(payload),
		HistoryLinked: linkToHistory && h != nil,
	}
	c.lastOpened = name
	c.lastOpenedAt = now
	snapshot, subs := c.snapshotLocked()
	c.mu.Unlock()

	if linkToHistory && h != nil {
		if replace {
			h.Replace(path)
		} else {
			h.Push(path)
		}
	}
	notify(subs, snapshot)
	return nil
}

// Close は表示中のオーバーレイを閉じる。何も開いていなければ何もしない。
//
// 履歴付きで開いていた場合は履歴を1つ戻す（戻れなければルートに置き換える）。
// そうでなければルートへ移動する。
func (c *Coordinator) Close() {
	c.closeIf(None)
}

// closeIf はonlyが表示中の場合にのみ閉じる。onlyがNoneなら表示中のものを閉じる。
func (c *Coordinator) closeIf(only Name) {
	c.mu.Lock()
	if c.state.Active == None || (only != None && c.state.Active != only) {
		c.mu.Unlock()
		return
	}
	linked := c.state.HistoryLinked
	h := c.history
	c.state = State{}
	// 明示的に閉じた後の再オープンは利用者の操作なのでガードしない。
	c.lastOpened = None
	c.lastOpenedAt = time.Time{}
	if linked && h != nil {
		c.awaitingEcho = true
	}
	snapshot, subs := c.snapshotLocked()
	c.mu.Unlock()

	if h != nil {
		if linked {
			if !h.Back() {
				c.mu.Lock()
				c.awaitingEcho = false
				c.mu.Unlock()
				h.Replace(RootPath)
			}
		} else if h.Path() != RootPath {
			h.Push(RootPath)
		}
	}
	notify(subs, snapshot)
}

// IsOpen はnameのオーバーレイが表示中かどうかを返す。
func (c *Coordinator) IsOpen(name Name) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.IsOpen(name)
}

// Active は表示中のオーバーレイ名を返す。
func (c *Coordinator) Active() Name {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Active
}

// State は現在の状態のコピーを返す。
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Payload = maps.Clone(s.Payload)
	return s
}

// HandleNavigation は履歴の移動（戻る・進む・ディープリンク）から状態を導出する。
//
// Closeが発行したBackの通知は1回だけ無視する（明示的な操作を優先する）。
// 導出したnameが表示中と同じなら何もしない。
func (c *Coordinator) HandleNavigation(path string) {
	name, err := ParsePath(path)
	if err != nil {
		c.logger.Warn("navigated to unknown overlay path", slog.String("path", path))
	}

	c.mu.Lock()
	if c.awaitingEcho {
		c.awaitingEcho = false
		c.mu.Unlock()
		return
	}
	if c.state.Active == name {
		c.mu.Unlock()
		return
	}
	c.state = State{
		Active:        name,
		HistoryLinked: name != None,
	}
	snapshot, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(subs, snapshot)
}

// Subscribe は状態変更の通知先を登録する。通知は変更ごとに同期的に行われる。
// 戻り値で登録を解除する。
func (c *Coordinator) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
		})
	}
}

// Reset は状態をNoneに戻し、履歴の購読を解除する。アプリケーション終了時に呼ぶ。
// 履歴は変更しない。
func (c *Coordinator) Reset() {
	c.mu.Lock()
	unlisten := c.unlisten
	c.unlisten = nil
	c.history = nil
	changed := c.state.Active != None
	c.state = State{}
	c.awaitingEcho = false
	c.lastOpened = None
	c.lastOpenedAt = time.Time{}
	snapshot, subs := c.snapshotLocked()
	c.mu.Unlock()

	if unlisten != nil {
		unlisten()
	}
	if changed {
		notify(subs, snapshot)
	}
}

// snapshotLocked は通知用の状態コピーと購読者一覧を返す。c.muを保持した状態で呼ぶこと。
func (c *Coordinator) snapshotLocked() (State, []func(State)) {
	s := c.state
	s.Payload = maps.Clone(s.Payload)
	subs := make([]func(State), 0, len(c.subscribers))
	for id := 0; id < c.nextSubID; id++ {
		if fn, ok := c.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	return s, subs
}

func notify(subs []func(State), s State) {
	for _, fn := range subs {
		fn(s)
	}
}
