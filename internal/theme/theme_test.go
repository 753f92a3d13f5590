package theme

import "testing"

func TestGet(t *testing.T) {
	for _, name := range Names() {
		th := Get(name)
		if th.Name != name {
			t.Errorf("Get(%q).Name = %q", name, th.Name)
		}
		if th.AvatarWidth <= 0 {
			t.Errorf("theme %q has no avatar width", name)
		}
		if len(th.accents) == 0 {
			t.Errorf("theme %q has no accent palette", name)
		}
	}

	if Get("no-such-theme").Name != NameDefault {
		t.Error("unknown name should fall back to the default theme")
	}
}

func TestIsValid(t *testing.T) {
	for _, name := range Names() {
		if !IsValid(name) {
			t.Errorf("IsValid(%q) = false", name)
		}
	}
	if IsValid("neon") {
		t.Error("IsValid should reject unknown names")
	}
}

func TestUserColorStable(t *testing.T) {
	th := Get(NameDefault)

	if th.UserColor("ava") != th.UserColor("ava") {
		t.Error("UserColor should be deterministic")
	}

	// All assigned colors come from the accent palette
	for _, name := range []string{"ava", "ben", "carol", "dmitri", "general"} {
		c := th.UserColor(name)
		found := false
		for _, a := range th.accents {
			if a == c {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("UserColor(%q) not in accent palette", name)
		}
	}
}

func TestUserColorEmptyPalette(t *testing.T) {
	th := &Theme{Accent: Get(NameDefault).Accent}
	if th.UserColor("ava") != th.Accent {
		t.Error("empty palette should fall back to the accent color")
	}
}
