// Package theme supplies visual styles keyed by semantic role. The
// formatting engine never hardcodes colors; it asks a Theme for the
// style of "heading level 2" or "muted syntax" and applies whatever
// comes back. Themes can be built in, loaded from TOML files, or
// adjusted by a user Lua hook.
package theme
