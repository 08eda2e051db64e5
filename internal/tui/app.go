package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/subnews/internal/browser"
	"github.com/matheuskafuri/subnews/internal/history"
	"github.com/matheuskafuri/subnews/internal/logging"
	"github.com/matheuskafuri/subnews/internal/reddit"
	"github.com/matheuskafuri/subnews/internal/textutil"
	"go.uber.org/zap"
)

const (
	defaultDebounce     = 300 * time.Millisecond
	defaultCopyFeedback = 2 * time.Second
)

type focusPane int

const (
	focusInput focusPane = iota
	focusList
)

type viewState int

const (
	stateIdle viewState = iota
	stateLoading
	stateError
	stateLoaded
)

type copyKind int

const (
	copyTitle copyKind = iota + 1
	copyWithBody
)

// copyAck records which copy action last succeeded.
type copyAck struct {
	postID string
	kind   copyKind
	token  int
}

func (c copyAck) matches(postID string, kind copyKind) bool {
	return c.kind != 0 && c.postID == postID && c.kind == kind
}

// Recorder persists completed queries.
type Recorder interface {
	Record(e history.Entry) error
}

type App struct {
	fetcher  reddit.Fetcher
	recorder Recorder
	clip     Clipboard
	log      *zap.SugaredLogger

	debounce     time.Duration
	copyFeedback time.Duration

	input   textinput.Model
	spinner spinner.Model

	state     viewState
	subreddit string
	posts     []reddit.Post
	bodies    map[string]string
	errMsg    string

	// seq identifies the latest query edit; only its debounce tick fires a fetch.
	seq int
	// gen identifies the latest fetch; results from older fetches are dropped.
	gen    int
	cancel context.CancelFunc

	copied    copyAck
	copyToken int

	cursor        int
	focus         focusPane
	previewScroll int
	showHelp      bool
	statusErr     error

	width       int
	height      int
	currentDate string
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Fetcher      reddit.Fetcher
	Recorder     Recorder
	Clipboard    Clipboard
	Logger       *zap.SugaredLogger
	Debounce     time.Duration
	CopyFeedback time.Duration
	Initial      string
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "subreddit name, e.g. golang"
	ti.Prompt = inputPromptStyle.Render("r/ ")
	ti.CharLimit = 50

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.CopyFeedback <= 0 {
		opts.CopyFeedback = defaultCopyFeedback
	}
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	a := &App{
		fetcher:      opts.Fetcher,
		recorder:     opts.Recorder,
		clip:         opts.Clipboard,
		log:          opts.Logger,
		debounce:     opts.Debounce,
		copyFeedback: opts.CopyFeedback,
		input:        ti,
		spinner:      sp,
		currentDate:  time.Now().Format("Jan 2"),
	}

	initial := strings.TrimSpace(opts.Initial)
	a.input.SetValue(initial)
	if initial == "" {
		a.focus = focusInput
		a.input.Focus()
	} else {
		a.focus = focusList
	}
	return a
}

func (a *App) Init() tea.Cmd {
	if strings.TrimSpace(a.input.Value()) == "" {
		return textinput.Blink
	}
	return a.startFetch()
}

// scheduleQuery restarts the quiet period after a query edit.
func (a *App) scheduleQuery() tea.Cmd {
	a.seq++
	seq := a.seq
	return tea.Tick(a.debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// startFetch clears the list and issues a request for the current query.
// Any fetch still in flight is cancelled and its result will be ignored.
func (a *App) startFetch() tea.Cmd {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.gen++
	a.posts = nil
	a.bodies = nil
	a.cursor = 0
	a.previewScroll = 0
	a.copied = copyAck{}

	name, err := reddit.NormalizeSubreddit(a.input.Value())
	if err != nil {
		a.subreddit = ""
		a.state = stateError
		a.errMsg = reddit.Message(err, "")
		return nil
	}

	a.subreddit = name
	a.state = stateLoading
	a.errMsg = ""

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	gen := a.gen
	f := a.fetcher
	a.log.Debugw("fetch started", "subreddit", name, "gen", gen)
	fetch := func() tea.Msg {
		defer cancel()
		posts, err := f.Fetch(ctx, name)
		if err != nil {
			return fetchErrMsg{gen: gen, subreddit: name, err: err}
		}
		return postsLoadedMsg{gen: gen, subreddit: name, posts: posts}
	}
	return tea.Batch(fetch, a.spinner.Tick)
}

func (a *App) recordCmd(e history.Entry) tea.Cmd {
	if a.recorder == nil {
		return nil
	}
	r := a.recorder
	log := a.log
	return func() tea.Msg {
		if err := r.Record(e); err != nil {
			log.Warnw("recording history failed", "subreddit", e.Subreddit, "error", err)
		}
		return nil
	}
}

func (a *App) copyCmd(p reddit.Post, kind copyKind) tea.Cmd {
	clip := a.clip
	text := p.ClipboardText(kind == copyWithBody)
	id := p.ID
	return func() tea.Msg {
		return copyResultMsg{postID: id, kind: kind, err: clip.WriteAll(text)}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return browserErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(10, msg.Width-8)
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.statusErr = nil
		return a.handleKey(msg)

	case debounceMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		return a, a.startFetch()

	case postsLoadedMsg:
		if msg.gen != a.gen {
			return a, nil
		}
		a.cancel = nil
		a.state = stateLoaded
		a.posts = msg.posts
		a.bodies = make(map[string]string, len(msg.posts))
		for _, p := range msg.posts {
			a.bodies[p.ID] = textutil.PlainText(p.Selftext)
		}
		a.log.Infow("fetch complete", "subreddit", msg.subreddit, "posts", len(msg.posts))
		return a, a.recordCmd(history.Entry{Subreddit: msg.subreddit, OK: true, PostCount: len(msg.posts)})

	case fetchErrMsg:
		if msg.gen != a.gen {
			return a, nil
		}
		a.cancel = nil
		a.state = stateError
		a.errMsg = reddit.Message(msg.err, msg.subreddit)
		a.log.Warnw("fetch failed", "subreddit", msg.subreddit, "error", msg.err)
		if errors.Is(msg.err, context.Canceled) {
			return a, nil
		}
		return a, a.recordCmd(history.Entry{Subreddit: msg.subreddit, Message: a.errMsg})

	case copyResultMsg:
		if msg.err != nil {
			a.log.Warnw("clipboard write failed", "post", msg.postID, "error", msg.err)
			return a, nil
		}
		a.copyToken++
		token := a.copyToken
		a.copied = copyAck{postID: msg.postID, kind: msg.kind, token: token}
		return a, tea.Tick(a.copyFeedback, func(time.Time) tea.Msg {
			return copyResetMsg{token: token}
		})

	case copyResetMsg:
		if a.copied.token == msg.token {
			a.copied = copyAck{}
		}
		return a, nil

	case browserErrMsg:
		a.statusErr = msg.err
		a.log.Warnw("opening browser failed", "error", msg.err)
		return a, nil

	case spinner.TickMsg:
		if a.state == stateLoading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.focus == focusInput {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			a.showHelp = false
		}
		return a, nil
	}

	if a.focus == focusInput {
		return a.handleInputKey(msg)
	}
	return a.handleListKey(msg)
}

func (a *App) focusList() {
	a.focus = focusList
	a.input.Blur()
}

func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// Skip the quiet period and load right away.
		a.focusList()
		a.seq++
		return a, a.startFetch()
	case "tab", "down", "esc":
		a.focusList()
		return a, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() == before {
		return a, cmd
	}
	return a, tea.Batch(cmd, a.scheduleQuery())
}

func (a *App) selected() (reddit.Post, bool) {
	if a.state != stateLoaded || a.cursor < 0 || a.cursor >= len(a.posts) {
		return reddit.Post{}, false
	}
	return a.posts[a.cursor], true
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.cursor < len(a.posts)-1 {
			a.cursor++
			a.previewScroll = 0
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		}
		return a, nil
	case "J", "pgdown":
		a.previewScroll++
		return a, nil
	case "K", "pgup":
		if a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "g", "home":
		a.cursor = 0
		a.previewScroll = 0
		return a, nil
	case "G", "end":
		if len(a.posts) > 0 {
			a.cursor = len(a.posts) - 1
			a.previewScroll = 0
		}
		return a, nil
	case "c":
		if p, ok := a.selected(); ok {
			return a, a.copyCmd(p, copyTitle)
		}
		return a, nil
	case "y":
		if p, ok := a.selected(); ok {
			return a, a.copyCmd(p, copyWithBody)
		}
		return a, nil
	case "o", "enter":
		if p, ok := a.selected(); ok {
			return a, openBrowserCmd(p.Link())
		}
		return a, nil
	case "r":
		a.seq++
		return a, a.startFetch()
	case "/", "tab", "i":
		a.focus = focusInput
		return a, a.input.Focus()
	case "?":
		a.showHelp = true
		return a, nil
	}
	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  subnews")
	}

	if a.showHelp {
		return a.renderHelp()
	}

	// Layout calculations
	headerHeight := 1
	inputHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - inputHeight - statusHeight - 2 // borders

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	headerLeft := headerStyle.Render("subnews")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	content := a.renderContent(contentHeight)

	left := statusSummary(a.state, a.subreddit, len(a.posts))
	if a.state == stateLoading {
		left = " " + a.spinner.View() + left
	}
	status := renderStatusBar(left, a.focus == focusInput, a.width)
	if a.statusErr != nil {
		status = errorStyle.Render(" " + a.statusErr.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, a.input.View(), content, status)
}

func (a *App) renderContent(height int) string {
	innerW := a.width - 4

	switch a.state {
	case stateIdle:
		msg := messageStyle.Render("Type a subreddit name to load its newest posts")
		return listPaneStyle.Width(a.width - 2).Height(height).Render(centerBlock(msg, innerW, height))
	case stateLoading:
		msg := a.spinner.View() + " " + messageStyle.Render("Loading r/"+a.subreddit+"...")
		return listPaneStyle.Width(a.width - 2).Height(height).Render(centerBlock(msg, innerW, height))
	case stateError:
		msg := errorStyle.Render(a.errMsg)
		return listPaneStyle.Width(a.width - 2).Height(height).Render(centerBlock(msg, innerW, height))
	}

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth

	listContent := renderList(a.posts, a.cursor, height, listWidth-4)
	listStyle := listPaneStyle
	if a.focus == focusList {
		listStyle = listPaneActiveStyle
	}
	listPane := listStyle.Width(listWidth - 2).Height(height).Render(listContent)

	var (
		selected *reddit.Post
		body     string
	)
	if p, ok := a.selected(); ok {
		selected = &p
		body = a.bodies[p.ID]
	}
	previewContent := renderPreview(selected, body, a.copied, previewWidth-4, height, a.previewScroll)
	previewPane := previewPaneStyle.Width(previewWidth - 2).Height(height).Render(previewContent)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
}

func centerBlock(s string, width, height int) string {
	return lipgloss.Place(max(width, 1), max(height, 1), lipgloss.Center, lipgloss.Center, s)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("subnews")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Query") + "\n" +
		"  type          Edit the subreddit name (loads after a short pause)\n" +
		"  enter         Load now\n" +
		"  tab, esc      Move to the post list\n\n" +
		dim.Render("Posts") + "\n" +
		"  j/k, ↑/↓     Navigate posts\n" +
		"  J/K           Scroll preview\n" +
		"  c             Copy title\n" +
		"  y             Copy title and text\n" +
		"  o, enter      Open post in browser\n" +
		"  r             Reload\n" +
		"  /             Edit query\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	if app.cancel != nil {
		app.cancel()
	}
	return err
}
