package lua

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/notedown/internal/renderer/core"
	"github.com/dshills/notedown/internal/theme"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hook.lua")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplySetsStyle(t *testing.T) {
	path := writeScript(t, `
set_style("heading1", { foreground = "#ff8040", bold = true, scale = 160 })
set_style("code", { mono = true, background = "#202020" })
`)

	th := theme.DefaultTheme().Clone()
	if err := NewStyleHook(path).Apply(th); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	h1 := th.StyleFor(theme.RoleHeading1)
	if h1.Foreground.Hex() != "#ff8040" {
		t.Errorf("heading1 foreground = %s, want #ff8040", h1.Foreground.Hex())
	}
	if !h1.Attributes.Has(core.AttrBold) {
		t.Error("heading1 should be bold")
	}
	if h1.EffectiveScale() != 160 {
		t.Errorf("heading1 scale = %d, want 160", h1.EffectiveScale())
	}

	code := th.StyleFor(theme.RoleCode)
	if code.Family != core.FamilyMono {
		t.Error("code should be mono")
	}
}

func TestApplyReadsThemeInfo(t *testing.T) {
	path := writeScript(t, `
if theme.name == "Default Dark" then
	set_style("quote", { foreground = theme.foreground })
end
`)

	th := theme.DefaultTheme().Clone()
	if err := NewStyleHook(path).Apply(th); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if got := th.StyleFor(theme.RoleQuote).Foreground; !got.Equals(th.Foreground) {
		t.Errorf("quote foreground = %v, want theme foreground", got)
	}
}

func TestGetStyleRoundTrip(t *testing.T) {
	path := writeScript(t, `
local s = get_style("strong")
if not s.bold then
	error("strong should report bold")
end
set_style("emphasis", s)
`)

	th := theme.DefaultTheme().Clone()
	if err := NewStyleHook(path).Apply(th); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if !th.StyleFor(theme.RoleEmphasis).Attributes.Has(core.AttrBold) {
		t.Error("emphasis should carry the copied bold attribute")
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown role", `set_style("banana", { bold = true })`},
		{"bad color", `set_style("code", { foreground = "#zzz" })`},
		{"scale out of range", `set_style("code", { scale = 0 })`},
		{"syntax error", `set_style(`},
		{"runtime error", `error("deliberate")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := theme.DefaultTheme().Clone()
			if err := NewStyleHook(writeScript(t, tt.body)).Apply(th); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSandboxBlocksCodeLoading(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"dofile", `dofile("/etc/passwd")`},
		{"loadstring", `loadstring("return 1")()`},
		{"io", `io.open("/etc/passwd")`},
		{"os execute", `os.execute("true")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := theme.DefaultTheme().Clone()
			if err := NewStyleHook(writeScript(t, tt.body)).Apply(th); err == nil {
				t.Error("sandboxed call should fail")
			}
		})
	}
}

func TestApplyMissingScript(t *testing.T) {
	th := theme.DefaultTheme().Clone()
	if err := NewStyleHook(filepath.Join(t.TempDir(), "absent.lua")).Apply(th); err == nil {
		t.Error("expected an error for a missing script")
	}
}
