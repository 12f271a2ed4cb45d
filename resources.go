package framegraph

import "fmt"

// Resources gives a pass's execute callback access to the real objects
// behind the handles the pass declared. Access to an undeclared handle is a
// bug in the pass code and panics: the backing object of an undeclared
// resource may not exist yet, or may already have been released.
type Resources struct {
	fg   *FrameGraph
	pass *PassNode
}

// PassName returns the display name of the executing pass.
func (r *Resources) PassName() string {
	return r.pass.name
}

// Texture returns the real texture behind a handle the pass declared with
// Read or Write.
func (r *Resources) Texture(h Handle) Texture {
	if !r.pass.declares(h) {
		panic(fmt.Sprintf("framegraph: pass %q accesses texture it did not declare", r.pass.name))
	}
	return r.fg.textureEntry(h).texture
}

// Descriptor returns the resolved descriptor of a texture the pass
// declared. Usage and sample count reflect the requirements propagated from
// render targets during compile.
func (r *Resources) Descriptor(h Handle) TextureDescriptor {
	if !r.pass.declares(h) {
		panic(fmt.Sprintf("framegraph: pass %q accesses texture it did not declare", r.pass.name))
	}
	return r.fg.textureEntry(h).Descriptor
}

// RenderTarget returns the real composite target behind a declared handle,
// along with the per-pass render parameters (viewport, clear and discard
// flags) refreshed for the executing pass.
func (r *Resources) RenderTarget(h RenderTargetHandle) (RenderTarget, RenderPassParams) {
	entry := r.fg.renderTargetEntry(h)
	if !r.pass.usesTarget(h.targetIndex()) {
		panic(fmt.Sprintf("framegraph: pass %q accesses render target %q it did not declare",
			r.pass.name, entry.name))
	}
	return entry.target, entry.params
}
