// Package cursor provides the insertion-point type and the guard that
// keeps the cursor stable across render passes.
//
// Attribute application never changes character content, so preserving
// the cursor should be exact; the guard's clamp exists as a safety net
// against implementation defects, not as a normal code path.
package cursor
