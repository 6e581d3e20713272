package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rsspanel/internal/panel"
)

// renderMain renders header, body and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// statusLabel names the badge shown in the header.
func statusLabel(s panel.State) string {
	switch {
	case s.Mode == panel.ModeUnconfigured:
		return "starting"
	case s.Mode == panel.ModeConfiguring:
		return "configuring"
	case s.Loading:
		return "loading"
	case s.LastError != nil:
		return "error"
	default:
		return "ready"
	}
}

// renderHeader renders the title bar: logo, panel id, feed URL, status badge.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface))

	left := styles.Logo.Render("RSS") + bg.Render(" ") +
		styles.Header.Padding(0).Render(m.panelID)

	status := statusLabel(m.state)
	right := styles.Badge(status).Render(status)
	if m.state.Mode == panel.ModeReady && m.state.Items != nil {
		right = styles.Header.Foreground(lipgloss.Color(m.theme.Muted)).
			Render(fmt.Sprintf("%d items", len(m.state.Items))) + right
	}

	feedURL := m.state.FeedURL
	if feedURL == "" {
		feedURL = "no feed"
	}
	avail := m.contentWidth() - lipgloss.Width(left) - lipgloss.Width(right) - 2
	middle := ""
	if avail > 4 {
		middle = styles.Header.Foreground(lipgloss.Color(m.theme.Muted)).
			Render(truncate(feedURL, avail-2))
	}

	gap := m.contentWidth() - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + middle + bg.Render(strings.Repeat(" ", gap)) + right
}

// renderFooter renders the key hints for the current mode.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	var hints []string
	if m.state.Mode == panel.ModeConfiguring {
		hints = []string{
			m.keys.Save.Help().Key + " " + m.keys.Save.Help().Desc,
			m.keys.Cancel.Help().Key + " " + m.keys.Cancel.Help().Desc,
		}
	} else {
		for _, k := range m.keys.ShortHelp() {
			hints = append(hints, k.Help().Key+" "+k.Help().Desc)
		}
	}
	return styles.Footer.Width(m.contentWidth()).Render(strings.Join(hints, "  "))
}

// renderBody renders the area between header and footer.
func (m Model) renderBody() string {
	height := max(m.height-2, 1)
	width := m.contentWidth()
	styles := m.theme.Styles()

	var content string
	switch {
	case m.state.Mode == panel.ModeUnconfigured:
		content = m.spinner.View() + " " + styles.MutedText.Render("Starting...")

	case m.state.Mode == panel.ModeConfiguring:
		content = m.renderConfigure()

	case m.state.Loading:
		content = m.spinner.View() + " " + styles.MutedText.Render("Loading feed...")

	case m.state.LastError != nil:
		content = m.renderError(*m.state.LastError)

	case m.state.FeedURL == "":
		content = styles.MutedText.Render("No feed configured. Press c to choose one.")

	case m.state.Items == nil:
		content = ""

	case len(m.state.Items) == 0:
		content = styles.MutedText.Render("This feed has no items.")

	default:
		return m.items.View()
	}

	return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 2).Render(content)
}

// renderConfigure renders the feed URL form.
func (m Model) renderConfigure() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Configure feed"))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("RSS 2.0 feed address. It is fetched through the retrieval proxy."))
	b.WriteString("\n")
	b.WriteString(styles.Input.Render(m.input.View()))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(styles.WarningText.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("enter save  esc cancel"))
	return b.String()
}

// renderError renders the generic summary with the detail dimmed below it.
func (m Model) renderError(info panel.ErrorInfo) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render(info.Summary()))
	if detail := strings.TrimSpace(info.Message); detail != "" {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(detail))
	}
	b.WriteString("\n\n")
	switch info.Kind {
	case panel.ConfigWriteFailed:
		b.WriteString(styles.MutedText.Render("Press c to try saving again."))
	default:
		b.WriteString(styles.MutedText.Render("Press r to retry or c to change the feed."))
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width == 1 {
		return "…"
	}
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
