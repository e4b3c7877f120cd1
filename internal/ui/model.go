// Package ui renders short-lived notices under a bubbletea view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// NoticeLifetime is how long a notice stays on screen.
const NoticeLifetime = 3 * time.Second

// Model holds the current notice. Any string message replaces it.
type Model struct {
	notification string
	notifiedAt   time.Time
}

// ClearNotificationMsg removes the notice it was scheduled for.
type ClearNotificationMsg struct {
	At time.Time
}

// Notify returns a command that shows text as a notice.
func Notify(text string) tea.Cmd {
	return func() tea.Msg { return text }
}

func clearAfter(at time.Time) tea.Cmd {
	return tea.Tick(NoticeLifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{At: at}
	})
}

// Notice is the text currently shown.
func (m *Model) Notice() string {
	return m.notification
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case string:
		m.notification = msg
		m.notifiedAt = time.Now()
		return clearAfter(m.notifiedAt)
	case ClearNotificationMsg:
		// a newer notice keeps its own timer
		if msg.At.Equal(m.notifiedAt) {
			m.notification = ""
		}
	}
	return nil
}

// View appends the notice to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	notice := "\033[90m" + m.notification + "\033[0m"
	lines[len(lines)-1] += "  " + notice
	return strings.Join(lines, "\n")
}
