package ui

import (
	"strings"
	"testing"

	"github.com/five82/rsspanel/internal/feed"
	"github.com/five82/rsspanel/internal/panel"
)

func TestHTMLToText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "   ", ""},
		{"plain", "  just text  ", "just text"},
		{"inline", "<p>Hello <b>world</b></p>", "Hello world"},
		{"paragraphs", "<p>One</p><p>Two</p>", "One\nTwo"},
		{"line_break", "first<br>second", "first\nsecond"},
		{"list", "<ul><li>a</li><li>b</li></ul>", "• a\n• b"},
		{"script_dropped", "<p>keep</p><script>alert(1)</script><style>p{}</style>", "keep"},
		{"entities", "<p>Fish &amp; chips</p>", "Fish & chips"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := htmlToText(tc.in); got != tc.want {
				t.Fatalf("htmlToText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	in := "\n\n  a   b \n\n\n\n c\t d \n\n"
	if got, want := normalizeText(in), "a b\n\nc d"; got != want {
		t.Fatalf("normalizeText = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		state panel.State
		want  string
	}{
		{panel.State{Mode: panel.ModeUnconfigured}, "starting"},
		{panel.State{Mode: panel.ModeConfiguring}, "configuring"},
		{panel.State{Mode: panel.ModeReady, Loading: true}, "loading"},
		{panel.State{Mode: panel.ModeReady, LastError: &panel.ErrorInfo{Kind: panel.ParseFailed}}, "error"},
		{panel.State{Mode: panel.ModeReady}, "ready"},
	}
	for _, tc := range cases {
		if got := statusLabel(tc.state); got != tc.want {
			t.Fatalf("statusLabel(%+v) = %q, want %q", tc.state, got, tc.want)
		}
	}
}

func TestRenderItemsSeparatesEntries(t *testing.T) {
	m := New(Options{})
	m.state = readyState(1, nil)
	m.state.Items = []feed.Item{
		{ID: "1", Title: "Alpha"},
		{ID: "2", Title: "Beta"},
	}

	out := m.renderItems(60)
	if !strings.Contains(out, "Alpha") || !strings.Contains(out, "Beta") {
		t.Fatalf("renderItems missing titles:\n%s", out)
	}
	if strings.Index(out, "Alpha") > strings.Index(out, "Beta") {
		t.Fatalf("renderItems changed item order")
	}
	if !strings.Contains(out, "─") {
		t.Fatalf("renderItems missing separator")
	}
}
