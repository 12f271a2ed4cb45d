// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
)

// Viewport is the rectangle a pass draws into, in pixels.
type Viewport struct {
	Left   uint32
	Bottom uint32
	Width  uint32
	Height uint32
}

// RenderPassFlags carries the clear/discard state of a render target for the
// currently executing pass.
type RenderPassFlags struct {
	// Clear selects the buffers cleared when the pass begins. Cleared to
	// none permanently after the target's first use: clearing a reused
	// target would erase already-rendered content.
	Clear TargetBufferFlags

	// DiscardStart selects the buffers whose prior contents need not be
	// loaded when the pass begins. Recomputed for every pass.
	DiscardStart TargetBufferFlags

	// DiscardEnd selects the buffers whose contents need not be preserved
	// when the pass ends. Recomputed for every pass.
	DiscardEnd TargetBufferFlags
}

// RenderPassParams is the per-pass state handed to the executing pass along
// with the real render target.
type RenderPassParams struct {
	// Viewport is the draw viewport. Defaults to the resolved backing
	// dimensions when left unset at declaration time.
	Viewport Viewport

	// Flags is the clear/discard state for the current pass.
	Flags RenderPassFlags
}

// RenderTargetDescriptor describes a composite render target declared by a
// pass.
type RenderTargetDescriptor struct {
	// Attachments are the virtual textures backing each slot.
	Attachments AttachmentSet

	// Viewport is the requested draw viewport. Left zero, it defaults to
	// the resolved backing-store dimensions.
	Viewport Viewport

	// Samples is the requested sample count. Propagated onto attachment
	// textures that have no explicit sample count of their own and are not
	// sampled directly by shaders.
	Samples uint8

	// ClearFlags selects the buffers cleared at the target's first use.
	ClearFlags TargetBufferFlags
}

// textureRequest accumulates the usage and sample-count requirements that
// render targets place on an attachment texture. Requirements are collected
// across all targets first and applied afterwards, so the outcome does not
// depend on the order targets are visited in.
type textureRequest struct {
	usage   gputypes.TextureUsage
	samples uint8
}

// RenderTargetEntry aggregates an AttachmentSet into one logical render
// target: it resolves the effective dimensions and sample count from its
// attachments, derives per-pass clear/discard flags, and owns the
// devirtualize/destroy protocol for the composite real object.
type RenderTargetEntry struct {
	entryBase

	// Descriptor holds the declared attachment set, sample count and clear
	// mask.
	Descriptor RenderTargetDescriptor

	// declaredBy is the pass that declared the target, nil for imported
	// targets. A different pass using the target is a soft inconsistency.
	declaredBy *PassNode

	// attachments is the resolved active-slot mask. Fixed after resolve:
	// a slot cannot become active or inactive without re-resolving.
	attachments TargetBufferFlags

	// width and height are the resolved backing-store dimensions.
	width  uint32
	height uint32

	// params is the per-pass state refreshed by update.
	params RenderPassParams

	// target is the real composite object; nil until devirtualized, nil
	// again after destroyed. For imported entries it is the externally
	// supplied object for the entry's whole life.
	target RenderTarget
}

// Attachments returns the resolved active-slot mask.
func (e *RenderTargetEntry) Attachments() TargetBufferFlags { return e.attachments }

// Width returns the resolved backing-store width.
func (e *RenderTargetEntry) Width() uint32 { return e.width }

// Height returns the resolved backing-store height.
func (e *RenderTargetEntry) Height() uint32 { return e.height }

// Params returns the per-pass render state as refreshed for the most recent
// pass update.
func (e *RenderTargetEntry) Params() RenderPassParams { return e.params }

// Target returns the real composite object, or nil if the entry has not
// been devirtualized.
func (e *RenderTargetEntry) Target() RenderTarget { return e.target }

// collectRequirements records the usage and sample-count requirements this
// target places on its attachment textures. First half of the two-phase
// attribute resolution; FrameGraph applies the merged requests afterwards.
func (e *RenderTargetEntry) collectRequirements(fg *FrameGraph, reqs map[int]*textureRequest) {
	for _, a := range e.Descriptor.Attachments {
		if !a.IsValid() {
			continue
		}
		n := fg.resourceNode(a.Handle)
		r := reqs[n.entryIndex]
		if r == nil {
			r = &textureRequest{}
			reqs[n.entryIndex] = r
		}
		// Attachments must be renderable into. WebGPU has a single
		// render-attachment usage covering color, depth and stencil.
		r.usage |= gputypes.TextureUsageRenderAttachment
		if r.samples < e.Descriptor.Samples {
			r.samples = e.Descriptor.Samples
		}
	}
}

// resolve computes the entry's active-slot mask and backing-store dimensions
// from its attachment textures. Runs once per compile, strictly after all
// passes have declared their references and after the merged usage and
// sample-count requests have been applied to the texture entries.
//
// Attachments are allowed to disagree in size; the resolved dimensions are
// then the maximum observed in each axis. This is a caller-visible
// inconsistency reported through a diagnostic, not a hard failure.
func (e *RenderTargetEntry) resolve(fg *FrameGraph) {
	if e.imported {
		// Externally supplied target: dimensions and slots are fixed by
		// the real object. Only the clear request applies.
		e.params.Flags.Clear = e.Descriptor.ClearFlags
		return
	}

	e.attachments = TargetBufferNone
	e.width = 0
	e.height = 0

	minWidth := uint32(math.MaxUint32)
	minHeight := uint32(math.MaxUint32)
	maxWidth := uint32(0)
	maxHeight := uint32(0)

	for i, a := range e.Descriptor.Attachments {
		if !a.IsValid() {
			continue
		}
		entry := fg.textureEntry(a.Handle)
		e.attachments |= slotFlags[i]

		w := mipSize(a.Level, entry.Descriptor.Width)
		h := mipSize(a.Level, entry.Descriptor.Height)
		minWidth = min(minWidth, w)
		maxWidth = max(maxWidth, w)
		minHeight = min(minHeight, h)
		maxHeight = max(maxHeight, h)
	}

	if !e.attachments.Any() {
		return
	}

	if minWidth == maxWidth && minHeight == maxHeight {
		// All attachments agree on the backing-store size.
		e.width = minWidth
		e.height = minHeight
	} else {
		// TODO: should mismatched attachment sizes be a user error?
		e.width = maxWidth
		e.height = maxHeight
		fg.diagnose(Diagnostic{
			Kind:     DiagnosticDimensionMismatch,
			Resource: e.name,
			Detail: fmt.Sprintf("attachment sizes differ: %dx%d .. %dx%d, using %dx%d",
				minWidth, minHeight, maxWidth, maxHeight, e.width, e.height),
		})
	}

	e.params.Viewport = e.Descriptor.Viewport
	if e.params.Viewport.Width == 0 && e.params.Viewport.Height == 0 {
		e.params.Viewport.Width = e.width
		e.params.Viewport.Height = e.height
	}
	e.params.Flags.Clear = e.Descriptor.ClearFlags
}

// update refreshes the per-pass discard flags from the executing pass's
// resource-node discard intents. Discard behavior is pass-local even though
// the backing object is shared, so update runs for every pass using the
// entry, immediately before that pass's devirtualize step.
func (e *RenderTargetEntry) update(fg *FrameGraph, pass *PassNode) {
	if !e.attachments.Any() {
		return
	}

	e.params.Flags.DiscardStart = TargetBufferNone
	e.params.Flags.DiscardEnd = TargetBufferNone

	for i, a := range e.Descriptor.Attachments {
		if !a.IsValid() {
			continue
		}
		n := fg.resourceNode(a.Handle)
		if n.discardStart {
			e.params.Flags.DiscardStart |= slotFlags[i]
		}
		if n.discardEnd {
			e.params.Flags.DiscardEnd |= slotFlags[i]
		}
	}

	// Clearing a buffer implies its prior contents are irrelevant.
	e.params.Flags.DiscardStart |= e.params.Flags.Clear

	// The target should only be rendered into by the pass that declared
	// it. Proceeding anyway risks visually corrupt output but is not
	// memory-unsafe.
	if e.declaredBy != nil && e.declaredBy != pass {
		fg.diagnose(Diagnostic{
			Kind:     DiagnosticUndeclaredRenderTarget,
			Pass:     pass.name,
			Resource: e.name,
			Detail: fmt.Sprintf("pass %q does not declare render target %q, expect graphic corruption",
				pass.name, e.name),
		})
	}
}

// preExecuteDevirtualize materializes the real composite object on the first
// pass that needs it. The attachment textures must already be devirtualized
// by their own entries; violations are bugs in the pass-declaration code and
// panic.
func (e *RenderTargetEntry) preExecuteDevirtualize(fg *FrameGraph) error {
	if e.imported {
		return nil
	}
	if e.target != nil {
		panic(fmt.Sprintf("framegraph: render target %q devirtualized twice", e.name))
	}
	if !e.attachments.Any() {
		panic(fmt.Sprintf("framegraph: render target %q has no active attachments", e.name))
	}

	var infos [AttachmentCount]TargetBufferInfo
	for i, a := range e.Descriptor.Attachments {
		if a.IsValid() != e.attachments.Has(slotFlags[i]) {
			panic(fmt.Sprintf("framegraph: render target %q slot %d validity changed after resolve",
				e.name, i))
		}
		if !a.IsValid() {
			continue
		}
		entry := fg.textureEntry(a.Handle)
		real := entry.Texture()
		if real == nil {
			panic(fmt.Sprintf("framegraph: render target %q attachment %q not devirtualized",
				e.name, entry.name))
		}
		levels := entry.Descriptor.Levels
		if levels == 0 {
			levels = 1
		}
		if a.Level >= levels {
			panic(fmt.Sprintf("framegraph: render target %q attachment %q mip level %d out of range (%d levels)",
				e.name, entry.name, a.Level, levels))
		}
		if entry.Descriptor.Samples > 1 && entry.Descriptor.Samples != e.Descriptor.Samples {
			panic(fmt.Sprintf("framegraph: render target %q sample count %d does not match multisampled attachment %q (%d)",
				e.name, e.Descriptor.Samples, entry.name, entry.Descriptor.Samples))
		}
		infos[i] = TargetBufferInfo{Texture: real, Level: a.Level}
	}

	target, err := fg.allocator.CreateRenderTarget(e.name, RenderTargetInfo{
		Attachments: e.attachments,
		Width:       e.width,
		Height:      e.height,
		Samples:     e.Descriptor.Samples,
		Color:       infos[AttachmentColor],
		Depth:       infos[AttachmentDepth],
		Stencil:     infos[AttachmentStencil],
	})
	if err != nil {
		return fmt.Errorf("framegraph: create render target %q: %w", e.name, err)
	}
	e.target = target
	Logger().Debug("render target devirtualized", "name", e.name,
		"attachments", e.attachments, "width", e.width, "height", e.height)
	return nil
}

// postExecuteDestroy releases the real composite object after the last
// referencing pass has executed. No-op for imported entries and for entries
// never devirtualized.
func (e *RenderTargetEntry) postExecuteDestroy(fg *FrameGraph) {
	if e.imported || e.target == nil {
		return
	}
	fg.allocator.DestroyRenderTarget(e.target)
	e.target = nil
	Logger().Debug("render target destroyed", "name", e.name)
}

// postExecuteDevirtualize runs after the first pass that used the real
// object has executed. Once a render target has been used it is never
// cleared again; it is being reused, not re-declared, and clearing would
// erase already-rendered content.
func (e *RenderTargetEntry) postExecuteDevirtualize(fg *FrameGraph) {
	e.params.Flags.Clear = TargetBufferNone
}
