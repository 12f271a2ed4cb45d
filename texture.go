// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// TextureDescriptor describes a virtual texture declared in the graph.
// Unset fields are filled with usable defaults at devirtualization time
// (Depth and Levels default to 1).
type TextureDescriptor struct {
	// Width is the base-level width in pixels.
	Width uint32

	// Height is the base-level height in pixels.
	Height uint32

	// Depth is the texture depth for 3D textures, or array layer count.
	Depth uint32

	// Levels is the number of mip levels.
	Levels uint8

	// Samples is the requested sample count for multisampling.
	// Zero means unspecified: render targets referencing this texture may
	// propagate their own sample count onto it during compile.
	Samples uint8

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used. Render targets OR
	// additional usage bits into this field for their attachments.
	Usage gputypes.TextureUsage
}

// mipSize returns a base dimension scaled down to the given mip level,
// clamped to one texel.
func mipSize(level uint8, base uint32) uint32 {
	v := base >> level
	if v < 1 {
		v = 1
	}
	return v
}

// Texture is the real backing object of a devirtualized texture resource.
//
// Implementations are provided by the Allocator; the allocator subpackage
// backs it with a gogpu/wgpu texture. Execute callbacks that need
// backend-specific access type-assert to the allocator's concrete type.
type Texture interface {
	// Width returns the base-level width in pixels.
	Width() uint32

	// Height returns the base-level height in pixels.
	Height() uint32

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat

	// SampleCount returns the number of samples per texel.
	SampleCount() uint32
}

// TextureEntry is the per-virtual-texture record owned by the graph: the
// declared descriptor plus a back-reference to the lazily-created real
// texture. Render-target entries read the resolved real texture and request
// usage/sample-count changes on the descriptor during compile; they never
// create or destroy the texture itself.
type TextureEntry struct {
	entryBase

	// Descriptor holds the declared texture attributes. Mutated during
	// compile when render targets referencing this texture propagate
	// usage and sample-count requirements.
	Descriptor TextureDescriptor

	// texture is the real backing object; nil until devirtualized, nil
	// again after destroyed. For imported entries it is the externally
	// supplied object for the entry's whole life.
	texture Texture
}

// Texture returns the real backing texture, or nil if the entry has not
// been devirtualized.
func (e *TextureEntry) Texture() Texture {
	return e.texture
}

// preExecuteDevirtualize creates the real texture on the first pass that
// needs it. Calling it again before postExecuteDestroy is a bug in the
// graph's scheduling and panics.
func (e *TextureEntry) preExecuteDevirtualize(fg *FrameGraph) error {
	if e.imported {
		return nil
	}
	if e.texture != nil {
		panic(fmt.Sprintf("framegraph: texture %q devirtualized twice", e.name))
	}

	desc := e.Descriptor
	if desc.Depth == 0 {
		desc.Depth = 1
	}
	if desc.Levels == 0 {
		desc.Levels = 1
	}
	if desc.Samples == 0 {
		desc.Samples = 1
	}

	t, err := fg.allocator.CreateTexture(e.name, desc)
	if err != nil {
		return fmt.Errorf("framegraph: create texture %q: %w", e.name, err)
	}
	e.texture = t
	Logger().Debug("texture devirtualized", "name", e.name,
		"width", desc.Width, "height", desc.Height)
	return nil
}

// postExecuteDestroy releases the real texture after the last referencing
// pass has executed. No-op for imported entries and for entries that were
// never devirtualized.
func (e *TextureEntry) postExecuteDestroy(fg *FrameGraph) {
	if e.imported || e.texture == nil {
		return
	}
	fg.allocator.DestroyTexture(e.texture)
	e.texture = nil
	Logger().Debug("texture destroyed", "name", e.name)
}

// postExecuteDevirtualize is a no-op for plain textures; only composite
// render targets carry state that must be reset after first use.
func (e *TextureEntry) postExecuteDevirtualize(fg *FrameGraph) {}
