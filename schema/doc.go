// Package schema defines the input boundary of the stamp engine: the
// structural representation of a type definition (name, generic
// parameters, fields or variants) together with the raw annotation text
// attached to each element. Definitions are produced by an external
// source parser; the engine never reads source text directly.
package schema
