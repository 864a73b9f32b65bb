// Package renderer applies render plans as visual attributes.
//
// The renderer never mutates character content. It writes style runs
// into an AttrBuffer, the presentation layer the host paints from, and
// it only ever runs on the interactive context. Spans are re-validated
// against the current buffer length at apply time; anything out of
// range is skipped silently, since formatting is best-effort decoration
// rather than a correctness property of the document.
package renderer
