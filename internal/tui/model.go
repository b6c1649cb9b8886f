// Package tui はオーバーレイビューをホストする端末クライアントを提供する。
//
// 1つのCoordinatorと1つのメモリ上の履歴を持ち、Coordinatorの状態変更通知を受けて
// 表示中のビュー（作成メニュー、各フォーム、検索）をマウント・アンマウントする。
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hitoshi/intranet/internal/client"
	"github.com/hitoshi/intranet/internal/labels"
	"github.com/hitoshi/intranet/internal/model"
	"github.com/hitoshi/intranet/internal/overlay"
)

// DefaultTimeout は投稿・検索1回あたりのタイムアウト。
const DefaultTimeout = 10 * time.Second

// Options は端末クライアントの設定。
type Options struct {
	Backend   client.Backend
	Labels    *labels.Labels
	UserID    model.ID
	StartPath string
	Guard     time.Duration
	Timeout   time.Duration
	Logger    *slog.Logger
	Styles    *Styles
	// Now はガード時間の判定に使う時計。nilなら現在時刻。
	Now       func() time.Time
}

type userLoadedMsg struct {
	user *model.User
	err  error
}

type submitResultMsg struct {
	generation int
	summary    string
	err        error
}

type searchResultMsg struct {
	generation int
	query      string
	users      []*model.User
	spaces     []*model.Space
	err        error
}

// observed はCoordinatorの購読コールバックが書き込む最新状態。
// 通知はUpdate内の操作から同期的に届くため、Updateの最後に反映する。
type observed struct {
	latest overlay.State
	dirty  bool
}

// Model はbubbleteaのルートモデル。
type Model struct {
	coord       *overlay.Coordinator
	history     *overlay.MemoryHistory
	unsubscribe func()
	obs         *observed

	backend client.Backend
	labels  *labels.Labels
	specs   map[overlay.Name]formSpec
	userID  model.ID
	user    *model.User
	timeout time.Duration
	logger  *slog.Logger
	styles  Styles

	// generation はビューをマウント・アンマウントするたびに増える。
	// 非同期処理の結果は開始時と同じ世代のビューにのみ反映する。
	generation int
	mounted    overlay.Name
	menu       *menu
	form       *form
	search     *search

	notice string
	err    string
	width  int
}

// New はModelを生成する。StartPathがオーバーレイのパスなら該当ビューを開いた状態で始まる。
func New(opts Options) (*Model, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("tui: backend is required")
	}
	l := opts.Labels
	if l == nil {
		var err error
		if l, err = labels.Default(); err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	start := opts.StartPath
	if start == "" {
		start = overlay.RootPath
	}
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	history := overlay.NewMemoryHistory(start)
	coordOpts := []overlay.Option{overlay.WithHistory(history), overlay.WithLogger(logger)}
	if opts.Guard > 0 {
		coordOpts = append(coordOpts, overlay.WithGuard(opts.Guard))
	}
	if opts.Now != nil {
		coordOpts = append(coordOpts, overlay.WithClock(opts.Now))
	}
	coord := overlay.New(coordOpts...)

	m := &Model{
		coord:   coord,
		history: history,
		obs:     &observed{},
		backend: opts.Backend,
		labels:  l,
		specs:   formSpecs(l),
		userID:  opts.UserID,
		timeout: timeout,
		logger:  logger,
		styles:  styles,
	}
	obs := m.obs
	m.unsubscribe = coord.Subscribe(func(s overlay.State) {
		obs.latest = s
		obs.dirty = true
	})

	coord.HandleNavigation(start)
	m.reconcile()
	return m, nil
}

// Coordinator はモデルが所有するCoordinatorを返す。
func (m *Model) Coordinator() *overlay.Coordinator { return m.coord }

// History はモデルが所有する履歴を返す。
func (m *Model) History() *overlay.MemoryHistory { return m.history }

// Close は購読を解除し、Coordinatorを初期状態に戻す。プログラム終了後に呼ぶ。
func (m *Model) Close() {
	m.unsubscribe()
	m.coord.Reset()
}

// Init は操作ユーザーの読み込みを開始する。
func (m *Model) Init() tea.Cmd {
	if m.userID.IsZero() {
		return nil
	}
	backend, id, timeout := m.backend, m.userID, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		u, err := backend.GetUser(ctx, id)
		return userLoadedMsg{user: u, err: err}
	}
}

// Update はメッセージを処理し、Coordinatorの状態変更をビューに反映する。
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case userLoadedMsg:
		m.handleUserLoaded(msg)
	case submitResultMsg:
		m.handleSubmitResult(msg)
	case searchResultMsg:
		m.handleSearchResult(msg)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}
	if rc := m.reconcile(); rc != nil {
		cmd = tea.Batch(cmd, rc)
	}
	return m, cmd
}

func (m *Model) handleUserLoaded(msg userLoadedMsg) {
	if msg.err != nil {
		m.logger.Warn("failed to load acting user",
			slog.Int64("user_id", int64(m.userID)),
			slog.String("error", msg.err.Error()),
		)
		m.err = "could not load user: " + msg.err.Error()
		return
	}
	m.user = msg.user
	if m.form != nil && m.form.user == nil {
		m.form.user = msg.user
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch {
	case m.menu != nil:
		return m.handleMenuKey(msg)
	case m.form != nil:
		return m.handleFormKey(msg)
	case m.search != nil:
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "c":
		m.open(overlay.Menu, true)
	case "/":
		m.open(overlay.Search, false)
	case "[":
		m.history.Back()
	case "]":
		m.history.Forward()
	}
	return nil
}

func (m *Model) open(name overlay.Name, link bool) {
	m.notice, m.err = "", ""
	var payload overlay.Payload
	if m.user != nil {
		payload = overlay.Payload{"user": m.user}
	}
	if err := m.coord.Open(name, payload, link); err != nil {
		m.err = err.Error()
	}
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.menu.onClose()
	case "up", "k":
		m.menu.up()
	case "down", "j":
		m.menu.down()
	case "enter":
		entry, ok := m.menu.selected()
		if !ok {
			return nil
		}
		name, hasForm := entry.Overlay()
		if !hasForm {
			m.logger.Info("menu item has no form", slog.String("item", entry.ID))
			m.notice = entry.Label + " has no form yet"
			return nil
		}
		m.menu.onClose()
		m.open(name, true)
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.form.onClose()
		return nil
	case "ctrl+s":
		return m.submitForm()
	}
	return m.form.update(msg)
}

// submitForm はフォームの入力値を非同期で投稿する。
func (m *Model) submitForm() tea.Cmd {
	f := m.form
	if f.submitting {
		return nil
	}
	if !f.allowed() {
		f.err = f.spec.deniedReason
		return nil
	}
	f.submitting = true
	f.err = ""

	gen := m.generation
	submit, backend, author, v, timeout := f.spec.submit, m.backend, f.user, f.values(), m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		summary, err := submit(ctx, backend, author, v)
		return submitResultMsg{generation: gen, summary: summary, err: err}
	}
}

func (m *Model) handleSubmitResult(msg submitResultMsg) {
	if msg.generation != m.generation || m.form == nil {
		m.logger.Debug("discarded submission result for an unmounted view",
			slog.Int("generation", msg.generation),
		)
		return
	}
	m.form.submitting = false
	if msg.err != nil {
		m.form.err = msg.err.Error()
		return
	}
	m.notice = msg.summary
	m.form.onClose()
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.search.onClose()
		return nil
	case "enter":
		query := strings.TrimSpace(m.search.query.Value())
		if query == "" {
			return nil
		}
		m.search.searching = true
		gen, backend, timeout := m.generation, m.backend, m.timeout
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			page := model.Page{Page: 1, Limit: searchLimit}
			res := searchResultMsg{generation: gen, query: query}
			users, err := backend.ListUsers(ctx, query, page)
			if err != nil {
				res.err = err
				return res
			}
			spaces, err := backend.ListSpaces(ctx, query, page)
			if err != nil {
				res.err = err
				return res
			}
			res.users, res.spaces = users.Users, spaces.Spaces
			return res
		}
	}
	return m.search.update(msg)
}

func (m *Model) handleSearchResult(msg searchResultMsg) {
	if msg.generation != m.generation || m.search == nil {
		return
	}
	m.search.setResult(msg)
}

// reconcile は購読で受け取った最新状態に合わせてビューを切り替える。
func (m *Model) reconcile() tea.Cmd {
	if !m.obs.dirty {
		return nil
	}
	m.obs.dirty = false
	active := m.obs.latest.Active
	if active == m.mounted {
		return nil
	}
	m.unmount()
	return m.mount(active)
}

func (m *Model) unmount() {
	if m.mounted != overlay.None {
		m.generation++
	}
	m.menu, m.form, m.search = nil, nil, nil
	m.mounted = overlay.None
}

func (m *Model) mount(name overlay.Name) tea.Cmd {
	if name == overlay.None {
		return nil
	}
	m.generation++
	m.mounted = name
	props := m.coord.Props(name)

	switch name {
	case overlay.Menu:
		m.menu = newMenu(m.labels.CreateMenu, props.OnClose)
		return nil
	case overlay.Search:
		var cmd tea.Cmd
		m.search, cmd = newSearch(props.OnClose)
		return cmd
	}

	spec, ok := m.specs[name]
	if !ok {
		m.logger.Warn("no view registered for overlay", slog.String("name", string(name)))
		return nil
	}
	user, _ := props.Payload["user"].(*model.User)
	if user == nil {
		user = m.user
	}
	var cmd tea.Cmd
	m.form, cmd = newForm(spec, user, props.OnClose)
	return cmd
}

// View は画面を描画する。
func (m *Model) View() string {
	st := m.styles
	var b strings.Builder

	who := "anonymous"
	if m.user != nil {
		who = fmt.Sprintf("%s (%s)", m.user.Name, m.user.Role)
	}
	b.WriteString(st.Header.Render("Social Intranet  " + m.history.Path() + "  " + who))
	b.WriteString("\n\n")

	switch {
	case m.menu != nil:
		b.WriteString(st.Overlay.Render(m.menu.view(st)))
	case m.form != nil:
		b.WriteString(st.Overlay.Render(m.form.view(st)))
	case m.search != nil:
		b.WriteString(st.Overlay.Render(m.search.view(st)))
	default:
		b.WriteString(st.Muted.Render("c create  / search  [ back  ] forward  q quit"))
	}
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(st.Notice.Render(m.notice))
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString(st.Error.Render(m.err))
		b.WriteString("\n")
	}
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

// Run は端末クライアントを起動し、終了するまでブロックする。
func Run(ctx context.Context, opts Options, programOpts ...tea.ProgramOption) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	programOpts = append(programOpts, tea.WithContext(ctx))
	if _, err := tea.NewProgram(m, programOpts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
