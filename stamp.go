// Package stamp declares the runtime contract satisfied by generated
// code: the wrapper access interfaces and small helpers over them.
// The generation engine itself lives under compiler/gen.
package stamp

// Wrapper provides read access to a single wrapped value of type I.
// The Wrapper pattern's generated Inner and InnerRef methods satisfy
// this interface.
type Wrapper[I any] interface {
	// Inner returns the wrapped value.
	Inner() I

	// InnerRef returns a pointer to the wrapped value.
	InnerRef() *I
}

// MutableWrapper extends Wrapper with mutation access. Generated types
// satisfy it when their wrapper annotation selects the mutable facet.
type MutableWrapper[I any] interface {
	Wrapper[I]

	// InnerMut returns a mutable pointer to the wrapped value.
	InnerMut() *I

	// SetInner replaces the wrapped value.
	SetInner(v I)
}

// InnerOf extracts the wrapped value of any Wrapper.
func InnerOf[I any](w Wrapper[I]) I {
	return w.Inner()
}

// Replace swaps the wrapped value and returns the previous one.
func Replace[I any](w MutableWrapper[I], v I) I {
	prev := w.Inner()
	w.SetInner(v)
	return prev
}
