package tui

import tea "github.com/charmbracelet/bubbletea"

type surfaceClosedMsg struct{}

func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, tick(), b.waitClosed())
}

func (b *statefulBubble) waitClosed() tea.Cmd {
	if b.options.Closed == nil {
		return nil
	}
	return func() tea.Msg {
		<-b.options.Closed
		return surfaceClosedMsg{}
	}
}
