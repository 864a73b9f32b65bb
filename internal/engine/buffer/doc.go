// Package buffer provides the editable text buffer underlying a note view.
//
// The buffer is the single source of truth for character content. It is
// indexed in UTF-16 code units so that span and cursor arithmetic stays in
// exact parity with the attributed-text surface that hosts it. The
// formatting engine only ever reads the buffer; characters are mutated
// exclusively by user-driven edits through Insert, Delete and Replace.
package buffer
