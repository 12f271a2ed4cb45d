package framegraph

import "fmt"

// DiagnosticKind classifies a soft inconsistency found while compiling or
// executing a graph.
type DiagnosticKind int

const (
	// DiagnosticDimensionMismatch reports a render target whose attachments
	// disagree in mip-scaled size. The target proceeds with the maximum
	// observed dimensions in each axis.
	DiagnosticDimensionMismatch DiagnosticKind = iota

	// DiagnosticUndeclaredRenderTarget reports a pass rendering into a
	// target it did not declare.
	DiagnosticUndeclaredRenderTarget
)

// String returns the string representation of the diagnostic kind.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticDimensionMismatch:
		return "DimensionMismatch"
	case DiagnosticUndeclaredRenderTarget:
		return "UndeclaredRenderTarget"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Diagnostic records one soft inconsistency. Soft inconsistencies never
// abort a frame: execution continues with a best-effort value, and the
// diagnostic is accumulated on the graph for callers and tests to inspect.
type Diagnostic struct {
	// Kind classifies the inconsistency.
	Kind DiagnosticKind

	// Pass is the display name of the pass involved, if any.
	Pass string

	// Resource is the name of the resource involved.
	Resource string

	// Detail is a human-readable description.
	Detail string
}

// diagnose accumulates a diagnostic and mirrors it to the logger.
func (fg *FrameGraph) diagnose(d Diagnostic) {
	fg.diagnostics = append(fg.diagnostics, d)
	Logger().Warn("framegraph inconsistency",
		"kind", d.Kind.String(), "pass", d.Pass, "resource", d.Resource,
		"detail", d.Detail)
}

// Diagnostics returns the soft inconsistencies accumulated so far, in the
// order they were found.
func (fg *FrameGraph) Diagnostics() []Diagnostic {
	return fg.diagnostics
}
