package framegraph

import "strings"

// TargetBufferFlags is a bitmask selecting attachment buffers of a composite
// render target. The flags describe which buffers an operation applies to:
// which attachments are populated, which must be cleared, which may be
// discarded.
type TargetBufferFlags uint8

const (
	// TargetBufferNone selects no buffer.
	TargetBufferNone TargetBufferFlags = 0

	// TargetBufferColor selects the color buffer.
	TargetBufferColor TargetBufferFlags = 1 << iota

	// TargetBufferDepth selects the depth buffer.
	TargetBufferDepth

	// TargetBufferStencil selects the stencil buffer.
	TargetBufferStencil

	// TargetBufferDepthAndStencil selects both depth and stencil buffers.
	TargetBufferDepthAndStencil = TargetBufferDepth | TargetBufferStencil

	// TargetBufferAll selects all buffers.
	TargetBufferAll = TargetBufferColor | TargetBufferDepth | TargetBufferStencil
)

// Any reports whether at least one buffer is selected.
func (f TargetBufferFlags) Any() bool {
	return f != TargetBufferNone
}

// Has reports whether every buffer in sel is selected in f.
func (f TargetBufferFlags) Has(sel TargetBufferFlags) bool {
	return f&sel == sel
}

// String returns a human-readable name for the flag combination.
func (f TargetBufferFlags) String() string {
	if f == TargetBufferNone {
		return "None"
	}
	var parts []string
	if f.Has(TargetBufferColor) {
		parts = append(parts, "Color")
	}
	if f.Has(TargetBufferDepth) {
		parts = append(parts, "Depth")
	}
	if f.Has(TargetBufferStencil) {
		parts = append(parts, "Stencil")
	}
	return strings.Join(parts, "|")
}
