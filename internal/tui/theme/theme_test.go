package theme

import "testing"

func TestByName(t *testing.T) {
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got)
	}
	if got := ByName("no-such-theme").Name; got != FlexokiDark.Name {
		t.Fatalf("unknown theme = %q, want %q", got, FlexokiDark.Name)
	}
}

func TestSystemFollowsBackground(t *testing.T) {
	orig := hasDarkBackground
	defer func() { hasDarkBackground = orig }()

	hasDarkBackground = func() bool { return false }
	if got := ByName(System).Name; got != "flexoki-light" {
		t.Fatalf("light terminal = %q, want flexoki-light", got)
	}
	hasDarkBackground = func() bool { return true }
	if got := ByName(System).Name; got != "flexoki-dark" {
		t.Fatalf("dark terminal = %q, want flexoki-dark", got)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if names[0] != System || len(names) != len(All)+1 {
		t.Fatalf("Names() = %v", names)
	}
}
