// Package errors provides structured, coded errors for vtree.
//
// Every failure the engine or the CLI can surface has a registered code
// (e.g. "E003") mapping to a category, a short message, a longer detail
// and a documentation URL. Codes compare equal under errors.Is regardless
// of the detail attached, so callers can match on sentinels:
//
//	if errors.Is(err, reconcile.ErrExpansionDepth) { ... }
//
// # Error Categories
//
//   - reconcile: malformed descriptions, runaway expansion, hook failures
//   - host: host-tree rejections that were surfaced rather than swallowed
//   - config: vtree.json / vtree.yaml problems
//   - cli: command-line and output problems
//
// # Usage
//
//	err := errors.New("E003").
//	    WithDetail("Func \"Loop\" expanded 1000 times").
//	    WithSuggestion("Make sure the function eventually returns an element")
//
//	fmt.Fprint(os.Stderr, err.Format())
package errors
