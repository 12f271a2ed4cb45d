package framegraph

import "fmt"

// Builder is the declaration surface handed to a pass's setup callback. All
// reads, writes and render targets of a pass are declared through it; the
// graph infers resource lifetimes, usage flags and clear/discard behavior
// from these declarations, independent of declaration order.
//
// A Builder is only valid for the duration of its setup callback.
type Builder struct {
	fg   *FrameGraph
	pass *PassNode
}

// PassName returns the display name of the pass being set up.
func (b *Builder) PassName() string {
	return b.pass.name
}

// CreateTexture declares a new virtual texture. No GPU object exists until
// the first pass actually needing the texture executes.
func (b *Builder) CreateTexture(name string, desc TextureDescriptor) Handle {
	entry := &TextureEntry{Descriptor: desc}
	entry.name = name
	return b.fg.appendTexture(entry)
}

// Descriptor returns the declared descriptor of a virtual texture.
func (b *Builder) Descriptor(h Handle) TextureDescriptor {
	return b.fg.textureEntry(h).Descriptor
}

// Read declares that the pass reads the given resource version. Reading
// keeps the producing pass alive through culling.
func (b *Builder) Read(h Handle) Handle {
	n := b.fg.resourceNode(h)
	for _, r := range b.pass.reads {
		if r == h {
			return h
		}
	}
	b.pass.reads = append(b.pass.reads, h)
	n.readerCount++
	return h
}

// Write declares that the pass writes the given resource. If the version
// behind h already has a different producer, the write is renamed: a new
// version of the resource is created and its handle returned. The caller
// must use the returned handle for anything depending on the written
// contents.
func (b *Builder) Write(h Handle) Handle {
	n := b.fg.resourceNode(h)
	if n.writer == b.pass {
		return h
	}
	if n.writer == nil {
		n.writer = b.pass
		b.pass.writes = append(b.pass.writes, h)
		return h
	}

	// Version bump: the previous contents stay addressable through the old
	// handle, readers of the new handle see this pass's output.
	entry := b.fg.textures[n.entryIndex]
	entry.version++
	b.fg.resourceNodes = append(b.fg.resourceNodes, ResourceNode{
		entryIndex: n.entryIndex,
		version:    entry.version,
		writer:     b.pass,
	})
	renamed := makeHandle(len(b.fg.resourceNodes)-1, entry.version)
	b.pass.writes = append(b.pass.writes, renamed)
	return renamed
}

// CreateRenderTarget declares a composite render target rendered into by
// this pass. Every populated attachment counts as a write: the stored
// descriptor is updated with the renamed handles, so later passes reading an
// attachment must obtain its handle from the pass data, not reuse the
// pre-declaration one.
func (b *Builder) CreateRenderTarget(name string, desc RenderTargetDescriptor) RenderTargetHandle {
	for i := range desc.Attachments {
		if desc.Attachments[i].IsValid() {
			desc.Attachments[i].Handle = b.Write(desc.Attachments[i].Handle)
		}
	}
	entry := &RenderTargetEntry{Descriptor: desc, declaredBy: b.pass}
	entry.name = name
	b.fg.targets = append(b.fg.targets, entry)
	index := len(b.fg.targets) - 1
	b.pass.targets = append(b.pass.targets, index)
	return makeRenderTargetHandle(index)
}

// UseRenderTarget declares that the pass renders into a target declared
// elsewhere (by an earlier pass, or imported). Using a target declared by
// another pass is reported as a soft inconsistency at execution time but is
// not an error.
func (b *Builder) UseRenderTarget(h RenderTargetHandle) RenderTargetHandle {
	b.fg.renderTargetEntry(h) // validates the handle
	index := h.targetIndex()
	if !b.pass.usesTarget(index) {
		b.pass.targets = append(b.pass.targets, index)
	}
	return h
}

// SideEffect marks the pass as externally observable, exempting it from
// culling even when nothing reads its outputs.
func (b *Builder) SideEffect() {
	b.pass.sideEffect = true
}

// String returns a debug description of the pass under construction.
func (b *Builder) String() string {
	return fmt.Sprintf("Builder(%q: %d reads, %d writes, %d targets)",
		b.pass.name, len(b.pass.reads), len(b.pass.writes), len(b.pass.targets))
}
