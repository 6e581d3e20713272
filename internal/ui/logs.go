package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rsspanel/internal/logging"
)

const logTailLines = 500

// tailLogsCmd reads the end of the application log off the UI goroutine.
func (m Model) tailLogsCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return logTailMsg{}
		}
		lines, err := logging.Tail(path, logTailLines)
		return logTailMsg{lines: lines, err: err}
	}
}

// renderLogs renders the log overlay, newest lines at the bottom.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	width := m.contentWidth()
	height := max(m.height-4, 1)

	var body string
	switch {
	case m.logErr != nil:
		body = styles.DangerText.Render("Log unavailable") + "\n" + styles.FaintText.Render(m.logErr.Error())
	case m.logPath == "":
		body = styles.MutedText.Render("Logging to file is disabled.")
	case len(m.logLines) == 0:
		body = styles.MutedText.Render("Log is empty.")
	default:
		lines := m.logLines
		if len(lines) > height {
			lines = lines[len(lines)-height:]
		}
		rendered := make([]string, len(lines))
		for i, line := range lines {
			rendered[i] = styles.Text.Render(truncate(line, width-2))
		}
		body = strings.Join(rendered, "\n")
	}

	title := styles.Header.Width(width).Render("Log  " + m.logPath)
	footer := styles.Footer.Width(width).Render("r reload  L/esc close  q quit")
	content := styles.Text.Width(width).Height(height).PaddingLeft(1).Render(body)
	return title + "\n" + content + "\n" + footer
}
