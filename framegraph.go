// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// FrameGraph owns the full set of resource entries and resource nodes of one
// frame and drives the resolve, per-pass update, devirtualize, execute,
// destroy sequence in compiled pass order.
//
// A FrameGraph is single-use and single-threaded: declare passes, call
// Compile once, call Execute once, then discard the graph. All operations on
// one graph are totally ordered by the pass sequence; there is no concurrent
// execution and no reentrancy.
type FrameGraph struct {
	allocator Allocator

	passes        []*PassNode
	resourceNodes []ResourceNode
	textures      []*TextureEntry
	targets       []*RenderTargetEntry

	diagnostics []Diagnostic
	blackboard  Blackboard

	compiled bool
}

// New creates an empty frame graph that allocates real GPU objects through
// alloc.
func New(alloc Allocator) *FrameGraph {
	if alloc == nil {
		panic("framegraph: nil allocator")
	}
	return &FrameGraph{allocator: alloc}
}

// AddPass declares a pass. The setup callback declares the resources the
// pass reads and writes through the Builder and stores the resulting handles
// in D; the execute callback runs when the compiled graph reaches the pass,
// with access to the real resources behind those handles.
//
// The returned *D is the same value handed to both callbacks, useful for
// feeding one pass's outputs into a later pass's setup.
func AddPass[D any](fg *FrameGraph, name string,
	setup func(b *Builder, data *D),
	execute func(res *Resources, data *D)) *D {
	if fg.compiled {
		panic("framegraph: AddPass after Compile")
	}
	data := new(D)
	pass := &PassNode{name: name}
	pass.execute = func(res *Resources) {
		if execute != nil {
			execute(res, data)
		}
	}
	fg.passes = append(fg.passes, pass)
	if setup != nil {
		setup(&Builder{fg: fg, pass: pass}, data)
	}
	return data
}

// ImportTexture declares a virtual texture backed by an externally supplied
// real texture. The graph never creates or destroys the backing object; it
// only schedules around it.
func (fg *FrameGraph) ImportTexture(name string, desc TextureDescriptor, t Texture) Handle {
	if fg.compiled {
		panic("framegraph: ImportTexture after Compile")
	}
	if t == nil {
		panic(fmt.Sprintf("framegraph: imported texture %q is nil", name))
	}
	entry := &TextureEntry{Descriptor: desc, texture: t}
	entry.name = name
	entry.imported = true
	return fg.appendTexture(entry)
}

// ImportRenderTarget declares a composite render target backed by an
// externally supplied real object, typically the window surface. Imported
// targets are never devirtualized or destroyed by the graph; desc supplies
// the clear request and sample count, target fixes everything else.
func (fg *FrameGraph) ImportRenderTarget(name string, desc RenderTargetDescriptor, target RenderTarget) RenderTargetHandle {
	if fg.compiled {
		panic("framegraph: ImportRenderTarget after Compile")
	}
	if target == nil {
		panic(fmt.Sprintf("framegraph: imported render target %q is nil", name))
	}
	entry := &RenderTargetEntry{Descriptor: desc, target: target}
	entry.name = name
	entry.imported = true
	entry.attachments = target.Attachments()
	entry.width = target.Width()
	entry.height = target.Height()
	entry.params.Viewport = Viewport{Width: target.Width(), Height: target.Height()}
	fg.targets = append(fg.targets, entry)
	return makeRenderTargetHandle(len(fg.targets) - 1)
}

// Blackboard returns the graph's name-to-handle registry, letting decoupled
// passes share resources by well-known names.
func (fg *FrameGraph) Blackboard() *Blackboard {
	return &fg.blackboard
}

// Compile freezes the declared graph: passes producing nothing observable
// are culled, resource lifetimes are computed, per-version discard intents
// are derived, and every render target resolves its active-attachment mask
// and backing-store dimensions.
//
// Compile is not fallible; inconsistencies it finds are accumulated as
// Diagnostics. It must be called exactly once, after all passes have been
// declared and before Execute.
func (fg *FrameGraph) Compile() {
	if fg.compiled {
		panic("framegraph: Compile called twice")
	}
	fg.compiled = true

	fg.cull()
	fg.computeLifetimes()
	fg.computeDiscards()

	// Attribute resolution is two-phase so the outcome is independent of
	// the order render targets are visited in: first merge the usage and
	// sample-count requests of every live target, then apply them to the
	// texture entries, then resolve each target's dimensions against the
	// updated descriptors.
	reqs := make(map[int]*textureRequest)
	for _, t := range fg.targets {
		if t.refs > 0 && !t.imported {
			t.collectRequirements(fg, reqs)
		}
	}
	fg.applyRequests(reqs)
	for _, t := range fg.targets {
		if t.refs > 0 {
			t.resolve(fg)
		}
	}
}

// Execute runs every non-culled pass in declaration order. For each pass:
// the render targets it uses refresh their per-pass flags, entries first
// needed by the pass are devirtualized, the pass's execute callback runs,
// entries last used by the pass are destroyed, and freshly used render
// targets drop their clear request.
//
// The only errors Execute returns are allocator failures; they abort the
// frame immediately.
func (fg *FrameGraph) Execute() error {
	if !fg.compiled {
		panic("framegraph: Execute before Compile")
	}
	for _, pass := range fg.passes {
		if pass.culled {
			continue
		}
		for _, ti := range pass.targets {
			fg.targets[ti].update(fg, pass)
		}
		for _, e := range pass.devirtualize {
			if err := e.preExecuteDevirtualize(fg); err != nil {
				return err
			}
		}
		pass.execute(&Resources{fg: fg, pass: pass})
		for _, e := range pass.destroy {
			e.postExecuteDestroy(fg)
		}
		for _, e := range pass.devirtualize {
			e.postExecuteDevirtualize(fg)
		}
	}
	return nil
}

// cull removes passes whose outputs nobody reads. A pass survives if it has
// side effects or if at least one resource version it writes still has
// readers; culling a pass releases its reads, which can cascade to earlier
// passes.
func (fg *FrameGraph) cull() {
	for changed := true; changed; {
		changed = false
		for _, pass := range fg.passes {
			if pass.culled || pass.sideEffect {
				continue
			}
			alive := false
			for _, h := range pass.writes {
				if fg.resourceNode(h).readerCount > 0 {
					alive = true
					break
				}
			}
			if alive {
				continue
			}
			pass.culled = true
			changed = true
			for _, h := range pass.reads {
				n := fg.resourceNode(h)
				if n.readerCount > 0 {
					n.readerCount--
				}
			}
			Logger().Debug("pass culled", "pass", pass.name)
		}
	}
}

// computeLifetimes walks the surviving passes in order and records, per
// entry, the first and last pass referencing it, then schedules each live
// entry's devirtualize on its first pass and destroy on its last.
func (fg *FrameGraph) computeLifetimes() {
	for _, pass := range fg.passes {
		if pass.culled {
			continue
		}
		touch := func(e resourceEntry) {
			b := e.base()
			b.refs++
			if b.first == nil {
				b.first = pass
			}
			b.last = pass
		}
		for _, h := range pass.reads {
			touch(fg.textures[fg.resourceNode(h).entryIndex])
		}
		for _, h := range pass.writes {
			touch(fg.textures[fg.resourceNode(h).entryIndex])
		}
		for _, ti := range pass.targets {
			touch(fg.targets[ti])
		}
	}

	// Attachment textures must exist before the targets binding them, and
	// targets must release their attachment views before the textures go
	// away, hence the asymmetric ordering of the two kinds.
	for _, e := range fg.textures {
		if e.refs > 0 {
			e.first.devirtualize = append(e.first.devirtualize, e)
		}
	}
	// A target with no populated attachment slots has nothing to
	// devirtualize; its passes still run, update just no-ops.
	for _, e := range fg.targets {
		if e.refs > 0 && (e.imported || e.Descriptor.Attachments.Flags().Any()) {
			e.first.devirtualize = append(e.first.devirtualize, e)
		}
	}
	for _, e := range fg.targets {
		if e.refs > 0 && (e.imported || e.Descriptor.Attachments.Flags().Any()) {
			e.last.destroy = append(e.last.destroy, e)
		}
	}
	for _, e := range fg.textures {
		if e.refs > 0 {
			e.last.destroy = append(e.last.destroy, e)
		}
	}
}

// computeDiscards derives the per-version discard intents consulted by
// render-target updates. A version's contents may be discarded at the start
// of its producing pass when that pass reads no earlier state of the
// resource, and at the end of its lifetime when no pass reads it.
func (fg *FrameGraph) computeDiscards() {
	for i := range fg.resourceNodes {
		n := &fg.resourceNodes[i]
		if w := n.writer; w != nil && !w.culled {
			n.discardStart = !w.readsEntryUpTo(fg, n.entryIndex, n.version)
		}
		n.discardEnd = n.readerCount == 0
	}
}

// applyRequests merges the collected usage and sample-count requests into
// the texture descriptors. A sample count is only propagated onto textures
// that neither specify their own nor are sampled directly by shaders.
func (fg *FrameGraph) applyRequests(reqs map[int]*textureRequest) {
	for entryIndex, r := range reqs {
		entry := fg.textures[entryIndex]
		entry.Descriptor.Usage |= r.usage
		if entry.Descriptor.Samples == 0 &&
			entry.Descriptor.Usage&gputypes.TextureUsageTextureBinding == 0 {
			entry.Descriptor.Samples = r.samples
		}
	}
}

// appendTexture registers a texture entry and its version-zero node,
// returning the node's handle.
func (fg *FrameGraph) appendTexture(entry *TextureEntry) Handle {
	fg.textures = append(fg.textures, entry)
	fg.resourceNodes = append(fg.resourceNodes, ResourceNode{
		entryIndex: len(fg.textures) - 1,
	})
	return makeHandle(len(fg.resourceNodes)-1, 0)
}

// resourceNode resolves a handle to its node. An invalid handle, a handle
// from another graph, or a handle whose version was superseded in a way the
// node table cannot represent, indicates a bug in the declaration code.
func (fg *FrameGraph) resourceNode(h Handle) *ResourceNode {
	if !h.IsValid() || h.nodeIndex() >= len(fg.resourceNodes) {
		panic(fmt.Sprintf("framegraph: invalid resource handle %+v", h))
	}
	n := &fg.resourceNodes[h.nodeIndex()]
	if n.version != h.version {
		panic(fmt.Sprintf("framegraph: stale resource handle %+v (node version %d)", h, n.version))
	}
	return n
}

// textureEntry resolves a handle to the texture entry behind it.
func (fg *FrameGraph) textureEntry(h Handle) *TextureEntry {
	return fg.textures[fg.resourceNode(h).entryIndex]
}

// renderTargetEntry resolves a render-target handle to its entry.
func (fg *FrameGraph) renderTargetEntry(h RenderTargetHandle) *RenderTargetEntry {
	if !h.IsValid() || h.targetIndex() >= len(fg.targets) {
		panic(fmt.Sprintf("framegraph: invalid render target handle %+v", h))
	}
	return fg.targets[h.targetIndex()]
}
