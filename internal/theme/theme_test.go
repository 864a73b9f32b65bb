package theme

import (
	"testing"

	"github.com/dshills/notedown/internal/renderer/core"
)

func TestHeadingRole(t *testing.T) {
	tests := []struct {
		level int
		want  Role
	}{
		{1, RoleHeading1},
		{3, RoleHeading3},
		{6, RoleHeading6},
		{0, RoleHeading1},
		{-2, RoleHeading1},
		{9, RoleHeading6},
	}

	for _, tt := range tests {
		if got := HeadingRole(tt.level); got != tt.want {
			t.Errorf("HeadingRole(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestRoleFromString(t *testing.T) {
	tests := []struct {
		name   string
		want   Role
		wantOK bool
	}{
		{"heading1", RoleHeading1, true},
		{"strong", RoleStrong, true},
		{"muted", RoleMutedSyntax, true},
		{"listmarker", RoleListMarker, true},
		{"nonsense", RoleBody, false},
	}

	for _, tt := range tests {
		got, ok := RoleFromString(tt.name)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("RoleFromString(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRoleStringRoundTrip(t *testing.T) {
	for role := RoleBody; role <= RoleMutedSyntax; role++ {
		name := role.String()
		back, ok := RoleFromString(name)
		if !ok {
			t.Fatalf("role %d has no string mapping", role)
		}
		if back != role {
			t.Errorf("round trip for %q: got %v, want %v", name, back, role)
		}
	}
}

func TestStyleForKnownRole(t *testing.T) {
	th := DefaultTheme()

	st := th.StyleFor(RoleStrong)
	if !st.Attributes.Has(core.AttrBold) {
		t.Error("strong style should be bold")
	}

	st = th.StyleFor(RoleCode)
	if st.Family != core.FamilyMono {
		t.Error("code style should use the mono family")
	}

	h1 := th.StyleFor(RoleHeading1)
	h6 := th.StyleFor(RoleHeading6)
	if h1.EffectiveScale() <= h6.EffectiveScale() {
		t.Errorf("heading1 scale %d should exceed heading6 scale %d",
			h1.EffectiveScale(), h6.EffectiveScale())
	}
}

func TestStyleForUnknownRoleFallsBack(t *testing.T) {
	th := &Theme{
		Name:       "bare",
		Foreground: core.ColorFromRGB(200, 200, 200),
		Background: core.ColorFromRGB(20, 20, 20),
	}

	st := th.StyleFor(RoleQuote)
	if !st.Foreground.Equals(th.Foreground) {
		t.Errorf("fallback foreground = %v, want theme foreground %v", st.Foreground, th.Foreground)
	}
}

func TestDerivedMutedSitsBetweenAnchors(t *testing.T) {
	th := &Theme{
		Name:       "bare",
		Foreground: core.ColorFromRGB(240, 240, 240),
		Background: core.ColorFromRGB(16, 16, 16),
	}

	st := th.StyleFor(RoleMutedSyntax)
	fg := st.Foreground
	if fg.Default {
		t.Fatal("derived muted color should not be the default color")
	}
	if fg.R <= th.Background.R || fg.R >= th.Foreground.R {
		t.Errorf("muted red channel %d should sit between background %d and foreground %d",
			fg.R, th.Background.R, th.Foreground.R)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := DefaultTheme()
	clone := orig.Clone()

	clone.SetStyle(RoleStrong, core.DefaultStyle().Italic())

	if orig.StyleFor(RoleStrong).Equals(clone.StyleFor(RoleStrong)) {
		t.Error("modifying a clone should not affect the original")
	}
}

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"Default Dark", "Light", "Dracula"} {
		if _, ok := r.Get(name); !ok {
			t.Errorf("built-in theme %q not registered", name)
		}
	}

	if r.Current().Name != "Default Dark" {
		t.Errorf("default current theme = %q, want Default Dark", r.Current().Name)
	}
}

func TestRegistrySetCurrent(t *testing.T) {
	r := NewRegistry()

	if !r.SetCurrent("Light") {
		t.Fatal("SetCurrent(Light) failed")
	}
	if r.Current().Name != "Light" {
		t.Errorf("current = %q, want Light", r.Current().Name)
	}

	if r.SetCurrent("no such theme") {
		t.Error("SetCurrent should fail for an unknown name")
	}
	if r.Current().Name != "Light" {
		t.Error("failed SetCurrent should leave current unchanged")
	}
}

func TestParseTheme(t *testing.T) {
	data := []byte(`
name = "Test"
foreground = "#e0e0e0"
background = "#101010"

[styles.heading1]
foreground = "#ff8040"
bold = true
scale = 160

[styles.code]
foreground = "#80ff80"
mono = true
`)

	th, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if th.Name != "Test" {
		t.Errorf("name = %q, want Test", th.Name)
	}

	h1 := th.StyleFor(RoleHeading1)
	if !h1.Attributes.Has(core.AttrBold) {
		t.Error("heading1 should be bold")
	}
	if h1.EffectiveScale() != 160 {
		t.Errorf("heading1 scale = %d, want 160", h1.EffectiveScale())
	}

	code := th.StyleFor(RoleCode)
	if code.Family != core.FamilyMono {
		t.Error("code should be mono")
	}
}

func TestParseThemeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing name", `foreground = "#fff"`},
		{"unknown role", "name = \"x\"\n[styles.bogus]\nbold = true"},
		{"bad color", "name = \"x\"\nforeground = \"#zzz\""},
		{"bad toml", `name = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
