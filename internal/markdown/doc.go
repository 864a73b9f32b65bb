// Package markdown detects structural markdown constructs in note text.
//
// The package has two layers. The pattern library is a set of pure,
// per-construct scan functions (headers, emphasis, inline code, fenced
// code blocks, links, lists, blockquotes) that map text to typed span
// matches. The analyzer runs the library over a full-text snapshot and
// produces an immutable RenderPlan for the renderer.
//
// Everything here is pure computation over strings: no shared mutable
// state, safe to run on a background goroutine. Malformed input is
// never an error; constructs that do not parse simply produce no match
// and remain plain text.
//
// All spans in produced matches are measured in UTF-16 code units to
// stay in parity with the host text buffer's indexing.
package markdown
