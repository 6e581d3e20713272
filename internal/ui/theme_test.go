package ui

import "testing"

func TestThemeCycle(t *testing.T) {
	names := ThemeNames()
	if len(names) == 0 {
		t.Fatalf("no themes")
	}
	current := names[0]
	for range names {
		current = NextTheme(current)
	}
	if current != names[0] {
		t.Fatalf("cycling every theme ended on %q, want %q", current, names[0])
	}
	if got := NextTheme("missing"); got != names[0] {
		t.Fatalf("NextTheme(missing) = %q, want %q", got, names[0])
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
	if got := GetTheme("missing").Name; got != DefaultThemeName {
		t.Fatalf("GetTheme(missing).Name = %q, want %q", got, DefaultThemeName)
	}
}
