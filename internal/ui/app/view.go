// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/docchat-tui/internal/api"
	"github.com/morganforge/docchat-tui/internal/route"
	"github.com/morganforge/docchat-tui/internal/session"
	"github.com/morganforge/docchat-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.resolver.Snapshot()
	if snap.State == session.StateResolving {
		return m.viewLoading()
	}

	var body string
	switch m.nav.Current() {
	case route.Landing:
		body = m.viewLanding(snap)
	case route.About:
		body = m.viewAbout()
	case route.HowToUse:
		body = m.viewHowToUse()
	case route.Login:
		body = m.viewLogin()
	case route.Signup:
		body = m.viewSignup()
	case route.Home:
		body = m.viewHome(snap)
	case route.Chat:
		body = m.viewChat()
	case route.ChatHistory:
		body = m.viewHistory()
	case route.Profile:
		body = m.viewProfile(snap)
	default:
		body = m.viewLanding(snap)
	}

	return m.theme.Container.Render(body) + "\n" + m.viewStatusBar(snap)
}

// viewLoading is shown while the stored credential is being resolved.
// Neither the public nor the signed-in screen is rendered until the
// session settles, so the user never sees the wrong one flash by.
func (m *Model) viewLoading() string {
	return m.theme.Container.Render(
		"\n" + m.spinner.View() + " " +
			m.theme.ThinkingText.Render("Checking your session..."))
}

func (m *Model) viewLanding(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("docchat") + "\n")
	b.WriteString(m.theme.HeaderSubtitle.Render("chat with your documents from the terminal") + "\n\n")

	if snap.Authenticated() {
		b.WriteString("Signed in as " + m.theme.ShortcutKey.Render(snap.Identity.Email) + "\n\n")
		b.WriteString(m.shortcut("enter", "go to your home screen"))
	} else {
		b.WriteString(m.shortcut("l", "log in"))
		b.WriteString(m.shortcut("s", "sign up"))
	}
	b.WriteString(m.shortcut("a", "about"))
	b.WriteString(m.shortcut("h", "how to use"))
	b.WriteString(m.shortcut("q", "quit"))
	return b.String()
}

func (m *Model) viewAbout() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("About") + "\n\n")
	b.WriteString("docchat is a terminal client for a document question-answering\n")
	b.WriteString("service. Upload documents through the web app, then ask questions\n")
	b.WriteString("about them from your terminal.\n\n")
	b.WriteString(m.shortcut("esc", "back"))
	return b.String()
}

func (m *Model) viewHowToUse() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("How to use") + "\n\n")
	b.WriteString("1. Sign up or log in with your account.\n")
	b.WriteString("2. Open a chat and ask questions about your uploaded documents.\n")
	b.WriteString("3. Saved chats appear under chat history, on every device.\n\n")
	b.WriteString(m.shortcut("esc", "back"))
	return b.String()
}

func (m *Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Log in") + "\n\n")
	b.WriteString(m.theme.FormLabel.Render("Email") + "\n")
	b.WriteString(m.login.email.View() + "\n\n")
	b.WriteString(m.theme.FormLabel.Render("Password") + "\n")
	b.WriteString(m.login.password.View() + "\n\n")

	if m.login.busy {
		b.WriteString(m.spinner.View() + " " + m.theme.ThinkingText.Render("Signing in..."))
	} else {
		b.WriteString(m.shortcut("enter", "submit"))
		b.WriteString(m.shortcut("tab", "next field"))
		b.WriteString(m.shortcut("esc", "back"))
	}
	if m.login.err != "" {
		b.WriteString("\n" + m.theme.FormError.Render(m.login.err))
	}
	return m.theme.FormBox.Render(b.String())
}

func (m *Model) viewSignup() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Sign up") + "\n\n")
	b.WriteString(m.theme.FormLabel.Render("Name") + "\n")
	b.WriteString(m.signup.name.View() + "\n\n")
	b.WriteString(m.theme.FormLabel.Render("Email") + "\n")
	b.WriteString(m.signup.email.View() + "\n\n")
	b.WriteString(m.theme.FormLabel.Render("Password") + "\n")
	b.WriteString(m.signup.password.View() + "\n\n")

	if m.signup.busy {
		b.WriteString(m.spinner.View() + " " + m.theme.ThinkingText.Render("Creating account..."))
	} else {
		b.WriteString(m.shortcut("enter", "submit"))
		b.WriteString(m.shortcut("tab", "next field"))
		b.WriteString(m.shortcut("esc", "back"))
	}
	if m.signup.err != "" {
		b.WriteString("\n" + m.theme.FormError.Render(m.signup.err))
	}
	return m.theme.FormBox.Render(b.String())
}

func (m *Model) viewHome(snap session.Snapshot) string {
	var b strings.Builder
	name := ""
	if snap.Identity != nil {
		name = snap.Identity.Name
	}
	b.WriteString(m.theme.HeaderTitle.Render("Welcome back, "+name) + "\n\n")
	b.WriteString(m.shortcut("c", "chat with your documents"))
	b.WriteString(m.shortcut("h", "chat history"))
	b.WriteString(m.shortcut("p", "profile"))
	b.WriteString(m.shortcut("L", "log out"))
	b.WriteString(m.shortcut("q", "quit"))
	return b.String()
}

func (m *Model) viewChat() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Chat") + "\n\n")
	b.WriteString(m.chatView.View() + "\n\n")

	if m.chatBusy {
		b.WriteString(m.spinner.View() + " " + m.theme.ThinkingText.Render("Thinking..."))
		b.WriteString("\n")
	}
	if m.chatErr != "" {
		b.WriteString(m.theme.ErrorBox.Render(
			m.theme.ErrorTitle.Render("Query failed") + "\n" +
				m.theme.ErrorMessage.Render(m.chatErr)))
		b.WriteString("\n")
	}
	b.WriteString(m.chatInput.View() + "\n")
	b.WriteString(m.shortcut("esc", "back to home"))
	return b.String()
}

// refreshChatView re-renders the transcript into the viewport and
// scrolls to the latest entry.
func (m *Model) refreshChatView() {
	var b strings.Builder
	for _, e := range m.chatEntries {
		if e.Sender == api.SenderUser {
			b.WriteString(m.theme.QuestionBubble.Render(e.Text) + "\n")
			continue
		}
		text := e.Text
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(e.Text); err == nil {
				text = strings.TrimRight(rendered, "\n")
			}
		}
		b.WriteString(m.theme.AnswerBubble.Render(text) + "\n")
	}
	m.chatView.SetContent(b.String())
	m.chatView.GotoBottom()
}

func (m *Model) viewHistory() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Chat history") + "\n\n")

	switch {
	case m.histBusy:
		b.WriteString(m.spinner.View() + " " + m.theme.ThinkingText.Render("Loading your chats..."))
		b.WriteString("\n")
	case m.histErr != "":
		b.WriteString(m.theme.ErrorBox.Render(
			m.theme.ErrorTitle.Render("Could not load history") + "\n" +
				m.theme.ErrorMessage.Render(m.histErr)))
		b.WriteString("\n")
	case len(m.chats) == 0:
		b.WriteString(m.theme.ListMeta.Render("No saved chats yet.") + "\n")
	default:
		for i, c := range m.chats {
			line := fmt.Sprintf("%s  %s  %s",
				shortID(c.ID),
				util.TruncateRunes(c.Title, 32),
				c.CreatedAt.Format("2006-01-02 15:04"))
			if i == m.chatCursor {
				b.WriteString(m.theme.ListItemSelected.Render(line) + "\n")
			} else {
				b.WriteString(m.theme.ListItem.Render(line) + "\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(m.shortcut("d", "delete"))
	b.WriteString(m.shortcut("e", "export"))
	b.WriteString(m.shortcut("r", "refresh"))
	b.WriteString(m.shortcut("esc", "back"))
	return b.String()
}

func (m *Model) viewProfile(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Profile") + "\n\n")
	if snap.Identity != nil {
		b.WriteString(m.theme.FormLabel.Render("Name:  ") + snap.Identity.Name + "\n")
		b.WriteString(m.theme.FormLabel.Render("Email: ") + snap.Identity.Email + "\n")
		if !snap.Identity.CreatedAt.IsZero() {
			b.WriteString(m.theme.FormLabel.Render("Since: ") +
				snap.Identity.CreatedAt.Format("January 2, 2006") + "\n")
		}
	}
	b.WriteString("\n")
	if m.deleteArmed {
		b.WriteString(m.theme.ErrorMessage.Render("Delete this account permanently? Press y to confirm.") + "\n\n")
	}
	b.WriteString(m.shortcut("L", "log out"))
	b.WriteString(m.shortcut("d", "delete account"))
	b.WriteString(m.shortcut("esc", "back"))
	return b.String()
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m *Model) viewStatusBar(snap session.Snapshot) string {
	left := m.theme.StatusAnon.Render("anonymous")
	if snap.Authenticated() {
		left = m.theme.StatusOnline.Render(snap.Identity.Email)
	}

	right := m.status
	bar := left
	if right != "" {
		bar = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.theme.ListMeta.Render(right))
	}
	return m.theme.StatusBar.Render(bar)
}

func (m *Model) shortcut(key, desc string) string {
	return m.theme.ShortcutKey.Render(key) + " " + m.theme.ShortcutDesc.Render(desc) + "\n"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
