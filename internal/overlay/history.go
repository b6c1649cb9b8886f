package overlay

import "sync"

// History はCoordinatorが同期するナビゲーション履歴。
//
// PushとReplaceはリスナーに通知しない。BackとForwardによる移動のみが
// リスナーに通知される（ブラウザのpushStateとpopstateと同じ関係）。
type History interface {
	Push(path string)
	Replace(path string)
	// Back は1つ前のエントリに戻る。戻れるエントリが無い場合はfalseを返す。
	Back() bool
	Path() string
	Listen(fn func(path string)) (unlisten func())
}

// MemoryHistory はメモリ上で完結するHistoryの実装。端末クライアントとテストで使用する。
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []string
	index     int
	listeners map[int]func(string)
	nextID    int
}

var _ History = (*MemoryHistory)(nil)

// NewMemoryHistory はstartを最初のエントリとするMemoryHistoryを生成する。
func NewMemoryHistory(start string) *MemoryHistory {
	if start == "" {
		start = RootPath
	}
	return &MemoryHistory{
		entries:   []string{start},
		listeners: make(map[int]func(string)),
	}
}

// Push は現在位置より先のエントリを捨ててpathを追加する。
func (h *MemoryHistory) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index++
}

// Replace は現在のエントリをpathで置き換える。
func (h *MemoryHistory) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = path
}

// Back は1つ前のエントリに戻り、リスナーに通知する。
func (h *MemoryHistory) Back() bool {
	return h.move(-1)
}

// Forward は1つ先のエントリに進み、リスナーに通知する。
func (h *MemoryHistory) Forward() bool {
	return h.move(1)
}

func (h *MemoryHistory) move(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	path := h.entries[next]
	fns := h.snapshotListeners()
	h.mu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
	return true
}

// Path は現在のエントリを返す。
func (h *MemoryHistory) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// CanGoBack は戻れるエントリがあるかを返す。
func (h *MemoryHistory) CanGoBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanGoForward は進めるエントリがあるかを返す。
func (h *MemoryHistory) CanGoForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.entries)-1
}

// Len は保持しているエントリ数を返す。
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Listen はBack/Forwardによる移動の通知先を登録する。戻り値で登録を解除する。
func (h *MemoryHistory) Listen(fn func(path string)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// snapshotListeners は登録順にリスナーを返す。h.muを保持した状態で呼ぶこと。
func (h *MemoryHistory) snapshotListeners() []func(string) {
	fns := make([]func(string), 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
