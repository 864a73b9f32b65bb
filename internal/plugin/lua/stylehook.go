package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/notedown/internal/renderer/core"
	"github.com/dshills/notedown/internal/theme"
)

// StyleHook executes a Lua script against a theme. The script sees a
// read-only "theme" table with the palette anchors and a set_style
// function:
//
//	set_style("heading1", { foreground = "#ff8040", bold = true, scale = 160 })
type StyleHook struct {
	path string
}

// NewStyleHook creates a hook for the given script path.
func NewStyleHook(path string) *StyleHook {
	return &StyleHook{path: path}
}

// Path returns the script path.
func (h *StyleHook) Path() string {
	return h.path
}

// Apply runs the script, mutating the theme in place. Callers should
// pass a Clone so a failing script cannot leave a registry theme half
// modified.
func (h *StyleHook) Apply(th *theme.Theme) error {
	L := newSandboxedState()
	defer L.Close()

	installThemeAPI(L, th)

	if err := L.DoFile(h.path); err != nil {
		return fmt.Errorf("style hook %s: %w", h.path, err)
	}
	return nil
}

// newSandboxedState opens only the safe standard libraries and strips
// the code loading entry points.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	return L
}

func installThemeAPI(L *lua.LState, th *theme.Theme) {
	info := L.NewTable()
	L.SetField(info, "name", lua.LString(th.Name))
	L.SetField(info, "foreground", lua.LString(th.Foreground.Hex()))
	L.SetField(info, "background", lua.LString(th.Background.Hex()))
	L.SetGlobal("theme", info)

	L.SetGlobal("set_style", L.NewFunction(func(L *lua.LState) int {
		roleName := L.CheckString(1)
		spec := L.CheckTable(2)

		role, ok := theme.RoleFromString(roleName)
		if !ok {
			L.RaiseError("unknown style role %q", roleName)
			return 0
		}

		st, err := styleFromTable(L, spec)
		if err != nil {
			L.RaiseError("set_style(%q): %s", roleName, err.Error())
			return 0
		}

		th.SetStyle(role, st)
		return 0
	}))

	L.SetGlobal("get_style", L.NewFunction(func(L *lua.LState) int {
		roleName := L.CheckString(1)

		role, ok := theme.RoleFromString(roleName)
		if !ok {
			L.RaiseError("unknown style role %q", roleName)
			return 0
		}

		L.Push(styleToTable(L, th.StyleFor(role)))
		return 1
	}))
}

func styleFromTable(L *lua.LState, spec *lua.LTable) (core.Style, error) {
	st := core.DefaultStyle()

	if fg := L.GetField(spec, "foreground"); fg != lua.LNil {
		c, err := core.ColorFromHex(lua.LVAsString(fg))
		if err != nil {
			return st, err
		}
		st = st.WithForeground(c)
	}
	if bg := L.GetField(spec, "background"); bg != lua.LNil {
		c, err := core.ColorFromHex(lua.LVAsString(bg))
		if err != nil {
			return st, err
		}
		st = st.WithBackground(c)
	}
	if lua.LVAsBool(L.GetField(spec, "bold")) {
		st = st.Bold()
	}
	if lua.LVAsBool(L.GetField(spec, "italic")) {
		st = st.Italic()
	}
	if lua.LVAsBool(L.GetField(spec, "underline")) {
		st = st.Underline()
	}
	if lua.LVAsBool(L.GetField(spec, "strikethrough")) {
		st = st.Strikethrough()
	}
	if lua.LVAsBool(L.GetField(spec, "mono")) {
		st = st.WithFamily(core.FamilyMono)
	}
	if scale := L.GetField(spec, "scale"); scale != lua.LNil {
		n := lua.LVAsNumber(scale)
		if n < 1 || n > 1000 {
			return st, fmt.Errorf("scale %v out of range", n)
		}
		st = st.WithScale(uint16(n))
	}

	return st, nil
}

func styleToTable(L *lua.LState, st core.Style) *lua.LTable {
	out := L.NewTable()
	if !st.Foreground.IsDefault() {
		L.SetField(out, "foreground", lua.LString(st.Foreground.Hex()))
	}
	if !st.Background.IsDefault() {
		L.SetField(out, "background", lua.LString(st.Background.Hex()))
	}
	L.SetField(out, "bold", lua.LBool(st.Attributes.Has(core.AttrBold)))
	L.SetField(out, "italic", lua.LBool(st.Attributes.Has(core.AttrItalic)))
	L.SetField(out, "underline", lua.LBool(st.Attributes.Has(core.AttrUnderline)))
	L.SetField(out, "strikethrough", lua.LBool(st.Attributes.Has(core.AttrStrikethrough)))
	L.SetField(out, "mono", lua.LBool(st.Family == core.FamilyMono))
	L.SetField(out, "scale", lua.LNumber(st.EffectiveScale()))
	return out
}
