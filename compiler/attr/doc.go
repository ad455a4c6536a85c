// Package attr implements the annotation grammar of the stamp engine.
//
// An annotation is a name followed by one of three payload shapes,
// decided unambiguously by the first token after the name:
//
//	wrap                          // flag
//	display = "error {code}"      // scalar
//	wrapper(display, mutable)     // mapping
//
// Mapping arguments are either bare identifiers or "key = value" pairs.
// Insertion order is preserved and lookup by key is supported; callers
// may depend on both. Malformed nesting, unterminated groups and
// duplicate keys are rejected with a ParseError anchored to the
// offending span of the raw text.
package attr
