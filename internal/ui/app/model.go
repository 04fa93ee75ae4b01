// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/morganforge/docchat-tui/internal/api"
	"github.com/morganforge/docchat-tui/internal/config"
	"github.com/morganforge/docchat-tui/internal/history"
	"github.com/morganforge/docchat-tui/internal/nav"
	"github.com/morganforge/docchat-tui/internal/session"
	"github.com/morganforge/docchat-tui/internal/storage"
	"github.com/morganforge/docchat-tui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// chatEntry is one rendered line pair in the chat screen.
type chatEntry struct {
	Sender string
	Text   string
}

// loginForm holds the login screen's inputs.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	err      string
	busy     bool
}

// signupForm holds the signup screen's inputs.
type signupForm struct {
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int
	err      string
	busy     bool
}

// Model is the Bubble Tea model for the whole application.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme

	client   *api.Client
	resolver *session.Resolver
	nav      *nav.Controller
	cache    *history.Cache
	store    *storage.TranscriptStore

	width  int
	height int

	spinner  spinner.Model
	renderer *glamour.TermRenderer

	login  loginForm
	signup signupForm

	// Chat screen state
	chatInput   textinput.Model
	chatView    viewport.Model
	chatEntries []chatEntry
	chatBusy    bool
	chatErr     string

	// History screen state
	chats      []api.ChatSummary
	chatCursor int
	histBusy   bool
	histErr    string

	// Profile screen state: delete is a two-key sequence
	deleteArmed bool

	// Set when a mid-session auth failure forces the logout, so the
	// redirect lands on login instead of the landing page.
	expired bool

	// Transient status line shown in the footer
	status string

	quitting bool
}

// Deps bundles everything the application model needs.
type Deps struct {
	Config   *config.Config
	Client   *api.Client
	Resolver *session.Resolver
	Cache    *history.Cache
	Store    *storage.TranscriptStore
}

// New builds the application model. The history cache is cleared on
// every navigation that leaves a session.
func New(deps Deps) *Model {
	theme := styles.NewTheme()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(deps.Config.UI.GlamourStyle),
		glamour.WithWordWrap(80),
	)

	m := &Model{
		cfg:      deps.Config,
		theme:    theme,
		client:   deps.Client,
		resolver: deps.Resolver,
		nav:      nav.NewController(deps.Cache),
		cache:    deps.Cache,
		store:    deps.Store,
		spinner:  sp,
		renderer: renderer,
	}

	m.login = newLoginForm()
	m.signup = newSignupForm()

	m.chatInput = textinput.New()
	m.chatInput.Placeholder = "Ask a question about your documents..."
	m.chatInput.CharLimit = 2000
	m.chatInput.Width = 60

	m.chatView = viewport.New(80, 20)

	return m
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return loginForm{email: email, password: password}
}

func newSignupForm() signupForm {
	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 64
	name.Width = 40
	name.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return signupForm{name: name, email: email, password: password}
}

// Init starts session resolution and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		session.ResolveCmd(m.resolver),
		m.spinner.Tick,
	)
}
