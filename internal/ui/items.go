package ui

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/lipgloss"
)

// renderItems renders the item list for the viewport.
func (m Model) renderItems(width int) string {
	if len(m.state.Items) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	textWidth := max(width-4, 20)
	block := lipgloss.NewStyle().Width(textWidth).PaddingLeft(2)

	var b strings.Builder
	for i, item := range m.state.Items {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(styles.FaintText.Render(strings.Repeat("─", textWidth)))
			b.WriteString("\n")
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "(untitled)"
		}
		b.WriteString(block.Inherit(styles.ItemTitle).Render(title))
		b.WriteString("\n")

		if link := strings.TrimSpace(item.Link); link != "" {
			b.WriteString(block.Inherit(styles.ItemLink).Render(link))
			b.WriteString("\n")
		}

		if body := htmlToText(item.HTMLBody); body != "" {
			b.WriteString(block.Inherit(styles.Text).Render(body))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// htmlToText flattens an item body to plain text, keeping paragraph and list
// breaks. Input that is not HTML comes back trimmed.
func htmlToText(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("• ")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, blockquote, pre, tr").AppendHtml("\n")

	return normalizeText(doc.Text())
}

// normalizeText collapses runs of spaces and blank lines.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if len(out) > 0 && !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
