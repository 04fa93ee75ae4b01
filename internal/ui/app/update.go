// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/docchat-tui/internal/api"
	"github.com/morganforge/docchat-tui/internal/history"
	"github.com/morganforge/docchat-tui/internal/route"
	"github.com/morganforge/docchat-tui/internal/session"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.chatView.Width = msg.Width - 4
		if msg.Height > 8 {
			m.chatView.Height = msg.Height - 8
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// ==========================================================================
	// SESSION MESSAGES
	// ==========================================================================

	case session.ResolvedMsg:
		target := m.nav.SessionSettled(msg.Snapshot.State)
		return m, m.enterCmd(target)

	case session.LoginSucceededMsg:
		m.login.busy = false
		m.signup.busy = false
		m.login = newLoginForm()
		m.signup = newSignupForm()
		target := m.nav.LoginSucceeded()
		return m, m.enterCmd(target)

	case session.LoginFailedMsg:
		m.login.busy = false
		m.login.err = authErrorText(msg.Err)
		return m, nil

	case session.SignupFailedMsg:
		m.signup.busy = false
		m.signup.err = authErrorText(msg.Err)
		return m, nil

	case session.LoggedOutMsg:
		m.chatEntries = nil
		m.chats = nil
		if m.expired {
			m.expired = false
			target := m.nav.SessionExpired()
			cmd := m.enterCmd(target)
			m.status = "session expired, please log in again"
			return m, cmd
		}
		target := m.nav.LoggedOut()
		return m, m.enterCmd(target)

	case accountDeletedMsg:
		if msg.Err != nil {
			if api.IsAuthFailure(msg.Err) {
				m.expired = true
				return m, session.LogoutCmd(m.resolver)
			}
			m.status = "account deletion failed: " + msg.Err.Error()
			return m, nil
		}
		m.chatEntries = nil
		m.chats = nil
		target := m.nav.AccountDeleted()
		return m, m.enterCmd(target)

	// ==========================================================================
	// HISTORY MESSAGES
	// ==========================================================================

	case historyLoadedMsg:
		m.histBusy = false
		m.histErr = ""
		m.chats = msg.Chats
		if m.chatCursor >= len(m.chats) {
			m.chatCursor = 0
		}
		return m, nil

	case historyFailedMsg:
		m.histBusy = false
		if msg.Err == history.ErrNotAuthenticated {
			target := m.nav.Go(m.resolver.Snapshot().State, route.ChatHistory)
			return m, m.enterCmd(target)
		}
		if api.IsAuthFailure(msg.Err) {
			m.expired = true
			return m, session.LogoutCmd(m.resolver)
		}
		m.histErr = msg.Err.Error()
		return m, nil

	case chatDeletedMsg:
		if msg.Err != nil && !api.IsNotFound(msg.Err) {
			m.status = "delete failed on server; list refreshes on next visit"
		}
		return m, nil

	// ==========================================================================
	// CHAT MESSAGES
	// ==========================================================================

	case answerMsg:
		m.chatBusy = false
		m.chatErr = ""
		m.chatEntries = append(m.chatEntries, chatEntry{Sender: api.SenderBot, Text: msg.Answer})
		m.refreshChatView()
		return m, nil

	case answerFailedMsg:
		m.chatBusy = false
		if api.IsAuthFailure(msg.Err) {
			m.expired = true
			return m, session.LogoutCmd(m.resolver)
		}
		m.chatErr = msg.Err.Error()
		return m, nil

	case chatSavedMsg:
		if msg.Err != nil {
			m.status = "could not save chat to server"
		} else {
			m.status = "chat saved"
		}
		return m, nil

	case chatExportedMsg:
		if msg.Err != nil {
			m.status = "export failed: " + msg.Err.Error()
		} else {
			m.status = "exported to local transcripts"
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

// updateKeys handles keyboard input for the current screen.
func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	state := m.resolver.Snapshot().State
	if state == session.StateResolving {
		// Everything but quit waits for resolution.
		return m, nil
	}

	switch m.nav.Current() {
	case route.Landing:
		return m.updateLandingKeys(msg)
	case route.Login:
		return m.updateLoginKeys(msg)
	case route.Signup:
		return m.updateSignupKeys(msg)
	case route.Home:
		return m.updateHomeKeys(msg)
	case route.Chat:
		return m.updateChatKeys(msg)
	case route.ChatHistory:
		return m.updateHistoryKeys(msg)
	case route.Profile:
		return m.updateProfileKeys(msg)
	case route.About, route.HowToUse:
		return m.updateStaticKeys(msg)
	}

	return m, nil
}

func (m *Model) updateLandingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.resolver.Snapshot().State
	switch msg.String() {
	case "l":
		return m, m.goTo(route.Login)
	case "s":
		return m, m.goTo(route.Signup)
	case "a":
		return m, m.goTo(route.About)
	case "h":
		return m, m.goTo(route.HowToUse)
	case "enter":
		if state == session.StateAuthenticated {
			return m, m.goTo(route.Home)
		}
		return m, m.goTo(route.Login)
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.busy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, m.goTo(route.Landing)
	case "tab", "down":
		m.login.focus = (m.login.focus + 1) % 2
		m.syncLoginFocus()
		return m, nil
	case "shift+tab", "up":
		m.login.focus = (m.login.focus + 1) % 2
		m.syncLoginFocus()
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.login.email.Value())
		password := m.login.password.Value()
		if email == "" || password == "" {
			m.login.err = "email and password are required"
			return m, nil
		}
		m.login.err = ""
		m.login.busy = true
		return m, tea.Batch(
			session.LoginCmd(m.resolver, m.client, email, password),
			m.spinner.Tick,
		)
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.email, cmd = m.login.email.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) syncLoginFocus() {
	if m.login.focus == 0 {
		m.login.email.Focus()
		m.login.password.Blur()
	} else {
		m.login.email.Blur()
		m.login.password.Focus()
	}
}

func (m *Model) updateSignupKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.signup.busy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, m.goTo(route.Landing)
	case "tab", "down":
		m.signup.focus = (m.signup.focus + 1) % 3
		m.syncSignupFocus()
		return m, nil
	case "shift+tab", "up":
		m.signup.focus = (m.signup.focus + 2) % 3
		m.syncSignupFocus()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.signup.name.Value())
		email := strings.TrimSpace(m.signup.email.Value())
		password := m.signup.password.Value()
		if name == "" || email == "" || password == "" {
			m.signup.err = "all fields are required"
			return m, nil
		}
		m.signup.err = ""
		m.signup.busy = true
		req := api.SignupRequest{Name: name, Email: email, Password: password}
		return m, tea.Batch(
			session.SignupCmd(m.resolver, m.client, req),
			m.spinner.Tick,
		)
	}

	var cmd tea.Cmd
	switch m.signup.focus {
	case 0:
		m.signup.name, cmd = m.signup.name.Update(msg)
	case 1:
		m.signup.email, cmd = m.signup.email.Update(msg)
	default:
		m.signup.password, cmd = m.signup.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) syncSignupFocus() {
	inputs := []*textinput.Model{&m.signup.name, &m.signup.email, &m.signup.password}
	for i, in := range inputs {
		if i == m.signup.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m *Model) updateHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		m.chatInput.Focus()
		return m, m.goTo(route.Chat)
	case "h":
		return m, m.goTo(route.ChatHistory)
	case "p":
		return m, m.goTo(route.Profile)
	case "L":
		return m, session.LogoutCmd(m.resolver)
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.chatInput.Blur()
		var cmds []tea.Cmd
		if m.cfg.Chat.SaveOnExit && len(m.chatEntries) > 0 {
			cmds = append(cmds, saveChatCmd(m.client, m.chatEntries))
		}
		cmds = append(cmds, m.goTo(route.Home))
		return m, tea.Batch(cmds...)
	case "enter":
		if m.chatBusy {
			return m, nil
		}
		question := strings.TrimSpace(m.chatInput.Value())
		if question == "" {
			return m, nil
		}
		m.chatInput.SetValue("")
		m.chatErr = ""
		m.chatBusy = true
		m.chatEntries = append(m.chatEntries, chatEntry{Sender: api.SenderUser, Text: question})
		m.refreshChatView()
		return m, tea.Batch(
			askCmd(m.client, question, m.cfg.Chat.TopK),
			m.spinner.Tick,
		)
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m *Model) updateHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.goTo(route.Home)
	case "up", "k":
		if m.chatCursor > 0 {
			m.chatCursor--
		}
		return m, nil
	case "down", "j":
		if m.chatCursor < len(m.chats)-1 {
			m.chatCursor++
		}
		return m, nil
	case "r":
		m.cache.Invalidate()
		m.histBusy = true
		return m, tea.Batch(loadHistoryCmd(m.cache), m.spinner.Tick)
	case "d", "delete":
		if len(m.chats) == 0 {
			return m, nil
		}
		target := m.chats[m.chatCursor]
		// Optimistic removal: interface updates now, backend follows.
		m.chats = append(m.chats[:m.chatCursor], m.chats[m.chatCursor+1:]...)
		if m.chatCursor >= len(m.chats) && m.chatCursor > 0 {
			m.chatCursor--
		}
		return m, deleteChatCmd(m.cache, target.ID)
	case "e":
		if len(m.chats) == 0 {
			return m, nil
		}
		m.status = "exporting..."
		return m, exportChatCmd(m.client, m.store, m.chats[m.chatCursor].ID)
	}
	return m, nil
}

func (m *Model) updateProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Account deletion is a two-key sequence: "d" arms it, "y" confirms,
	// anything else disarms.
	if m.deleteArmed {
		m.deleteArmed = false
		if msg.String() == "y" {
			m.status = "deleting account..."
			return m, deleteAccountCmd(m.client, m.resolver)
		}
		m.status = ""
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, m.goTo(route.Home)
	case "L":
		return m, session.LogoutCmd(m.resolver)
	case "d":
		m.deleteArmed = true
		return m, nil
	}
	return m, nil
}

func (m *Model) updateStaticKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, m.goTo(route.Landing)
	}
	return m, nil
}

// =============================================================================
// NAVIGATION HELPERS
// =============================================================================

// goTo routes a navigation request through the guard and returns the
// command that loads the entered screen's data.
func (m *Model) goTo(r route.Route) tea.Cmd {
	state := m.resolver.Snapshot().State
	target := m.nav.Go(state, r)
	return m.enterCmd(target)
}

// enterCmd returns the data-loading command for a freshly entered screen.
func (m *Model) enterCmd(r route.Route) tea.Cmd {
	m.status = ""
	switch r {
	case route.ChatHistory:
		m.histBusy = true
		m.histErr = ""
		return tea.Batch(loadHistoryCmd(m.cache), m.spinner.Tick)
	case route.Chat:
		m.chatInput.Focus()
		return textinput.Blink
	case route.Login:
		m.login = newLoginForm()
		return textinput.Blink
	case route.Signup:
		m.signup = newSignupForm()
		return textinput.Blink
	}
	return nil
}

// authErrorText maps auth failures to a short, user-facing line.
func authErrorText(err error) string {
	switch {
	case err == nil:
		return ""
	case api.IsAuthFailure(err):
		return "invalid email or password"
	case api.IsTimeout(err):
		return "the server took too long to respond"
	default:
		return "could not reach the server"
	}
}
