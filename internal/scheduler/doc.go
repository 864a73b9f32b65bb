// Package scheduler owns the async execution contract of the
// formatting engine: it debounces rapid edits, guarantees at most one
// analysis in flight, and coalesces changes raised during an in-flight
// run into exactly one follow-up. Only the latest text's plan is ever
// delivered; stale results are discarded by generation check.
package scheduler
