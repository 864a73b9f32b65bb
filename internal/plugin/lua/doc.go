// Package lua runs user style hooks: small Lua scripts that adjust
// theme styles per role at startup or theme switch. The runtime is
// sandboxed; scripts get the safe standard libraries and the styling
// API, nothing else.
package lua
