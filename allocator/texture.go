package allocator

import (
	"github.com/gogpu/framegraph"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture is a pooled GPU texture with its identity view. It implements
// framegraph.Texture; execute callbacks type-assert to *Texture for
// backend-level access.
type Texture struct {
	name string
	desc framegraph.TextureDescriptor
	tex  hal.Texture
	view hal.TextureView
}

// Width returns the base-level width in pixels.
func (t *Texture) Width() uint32 { return t.desc.Width }

// Height returns the base-level height in pixels.
func (t *Texture) Height() uint32 { return t.desc.Height }

// Format returns the texture pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.desc.Format }

// SampleCount returns the number of samples per texel.
func (t *Texture) SampleCount() uint32 {
	if t.desc.Samples == 0 {
		return 1
	}
	return uint32(t.desc.Samples)
}

// HAL returns the underlying hal texture.
func (t *Texture) HAL() hal.Texture { return t.tex }

// View returns the identity view covering the whole texture.
func (t *Texture) View() hal.TextureView { return t.view }

// destroy releases the GPU resources. Called by the pool when the texture
// ages out of the recycle cache.
func (t *Texture) destroy(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

var _ framegraph.Texture = (*Texture)(nil)

// RenderTarget is a composite render target built from per-attachment views.
// It implements framegraph.RenderTarget; execute callbacks type-assert to
// *RenderTarget to obtain the views for a wgpu render pass.
type RenderTarget struct {
	name        string
	attachments framegraph.TargetBufferFlags
	width       uint32
	height      uint32
	samples     uint32

	colorView   hal.TextureView
	depthView   hal.TextureView
	stencilView hal.TextureView
}

// Attachments returns the populated attachment slots.
func (rt *RenderTarget) Attachments() framegraph.TargetBufferFlags { return rt.attachments }

// Width returns the backing-store width in pixels.
func (rt *RenderTarget) Width() uint32 { return rt.width }

// Height returns the backing-store height in pixels.
func (rt *RenderTarget) Height() uint32 { return rt.height }

// SampleCount returns the number of samples per pixel.
func (rt *RenderTarget) SampleCount() uint32 { return rt.samples }

// ColorView returns the color attachment view, nil when the slot is unset.
func (rt *RenderTarget) ColorView() hal.TextureView { return rt.colorView }

// DepthView returns the depth attachment view, nil when the slot is unset.
func (rt *RenderTarget) DepthView() hal.TextureView { return rt.depthView }

// StencilView returns the stencil attachment view, nil when the slot is unset.
func (rt *RenderTarget) StencilView() hal.TextureView { return rt.stencilView }

// destroyViews releases the attachment views.
func (rt *RenderTarget) destroyViews(device hal.Device) {
	if rt.colorView != nil {
		device.DestroyTextureView(rt.colorView)
		rt.colorView = nil
	}
	if rt.depthView != nil {
		device.DestroyTextureView(rt.depthView)
		rt.depthView = nil
	}
	if rt.stencilView != nil {
		device.DestroyTextureView(rt.stencilView)
		rt.stencilView = nil
	}
}

var _ framegraph.RenderTarget = (*RenderTarget)(nil)
