package framegraph

// Allocator creates and destroys the real GPU objects backing virtual
// resources. The graph requests creation lazily, on the first pass needing
// an object, and destruction right after the last pass using it.
//
// Creation failure is treated as an unrecoverable out-of-memory-class
// condition: the graph performs no retry and aborts the frame. Destroy
// methods are called exactly once per successful create, never with a nil
// object.
//
// The allocator subpackage provides a caching implementation over
// gogpu/wgpu; tests typically supply a recording fake.
type Allocator interface {
	// CreateTexture creates a texture matching desc. The descriptor passed
	// in has Depth, Levels and Samples already defaulted to at least one.
	CreateTexture(name string, desc TextureDescriptor) (Texture, error)

	// DestroyTexture releases a texture returned by CreateTexture.
	DestroyTexture(t Texture)

	// CreateRenderTarget creates a composite render target from the
	// resolved attachment bindings. Only slots selected by
	// info.Attachments carry a valid binding.
	CreateRenderTarget(name string, info RenderTargetInfo) (RenderTarget, error)

	// DestroyRenderTarget releases a target returned by CreateRenderTarget.
	DestroyRenderTarget(rt RenderTarget)
}

// TargetBufferInfo binds one attachment slot of a composite render target to
// a real texture at a given mip level.
type TargetBufferInfo struct {
	// Texture is the real backing texture of the attachment.
	Texture Texture

	// Level is the mip level rendered into.
	Level uint8
}

// RenderTargetInfo carries everything the allocator needs to build a
// composite render target: the active-slot mask, the resolved backing-store
// dimensions and sample count, and the per-slot bindings.
type RenderTargetInfo struct {
	// Attachments selects the populated slots.
	Attachments TargetBufferFlags

	// Width and Height are the resolved backing-store dimensions.
	Width  uint32
	Height uint32

	// Samples is the sample count of the target.
	Samples uint8

	// Color, Depth and Stencil are the per-slot bindings. A binding is
	// meaningful only when the corresponding bit of Attachments is set.
	Color   TargetBufferInfo
	Depth   TargetBufferInfo
	Stencil TargetBufferInfo
}

// RenderTarget is the real composite object backing a devirtualized render
// target. Execute callbacks that need backend-specific access (attachment
// views, etc.) type-assert to the allocator's concrete type.
type RenderTarget interface {
	// Attachments returns the populated attachment slots.
	Attachments() TargetBufferFlags

	// Width returns the backing-store width in pixels.
	Width() uint32

	// Height returns the backing-store height in pixels.
	Height() uint32

	// SampleCount returns the number of samples per pixel.
	SampleCount() uint32
}
