package gen

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/syssam/stamp/compiler/attr"
	"github.com/syssam/stamp/schema"
)

// Diagnostic is one reported failure: the definition it belongs to, a
// one-sentence message and, when known, where in the annotation text
// or the input source the problem originates.
type Diagnostic struct {
	// Type is the failing definition's name, empty for run-level
	// failures.
	Type string
	// Message is the rendered one-sentence description.
	Message string
	// Span locates the problem inside an annotation's text, if known.
	Span *attr.Span
	// Pos locates the problem in the input source, if known.
	Pos *schema.Position
	// Err is the underlying error.
	Err error
}

// String renders the diagnostic as a single line.
func (d *Diagnostic) String() string {
	var b strings.Builder
	if d.Type != "" {
		fmt.Fprintf(&b, "%s: ", d.Type)
	}
	b.WriteString(d.Message)
	switch {
	case d.Pos != nil:
		fmt.Fprintf(&b, " (%s)", d.Pos)
	case d.Span != nil:
		fmt.Fprintf(&b, " (at %s)", d.Span)
	}
	return b.String()
}

// Report collects the diagnostics of one generation run. It is safe
// for concurrent use by the batch pipeline.
type Report struct {
	// RunID correlates all diagnostics of one run.
	RunID string

	mu          sync.Mutex
	diagnostics []*Diagnostic
}

// NewReport creates an empty report with a fresh run ID.
func NewReport() *Report {
	return &Report{RunID: uuid.NewString()}
}

// Add records one failure, extracting position information from the
// typed errors the pipeline produces.
func (r *Report) Add(typeName string, err error) {
	d := &Diagnostic{Type: typeName, Message: err.Error(), Err: err}
	var perr *attr.ParseError
	var verr *ValidationError
	switch {
	case errors.As(err, &perr):
		d.Span = &perr.Span
	case errors.As(err, &verr):
		d.Pos = verr.Pos
	}
	r.mu.Lock()
	r.diagnostics = append(r.diagnostics, d)
	r.mu.Unlock()
}

// Diagnostics returns the recorded diagnostics.
func (r *Report) Diagnostics() []*Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Diagnostic(nil), r.diagnostics...)
}

// Failed reports whether any diagnostic was recorded.
func (r *Report) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diagnostics) > 0
}

// Render writes the report, one diagnostic per line, prefixed with
// the run ID.
func (r *Report) Render(w io.Writer) error {
	for _, d := range r.Diagnostics() {
		if _, err := fmt.Fprintf(w, "stamp [%s] %s\n", r.RunID, d); err != nil {
			return err
		}
	}
	return nil
}
