package framegraph

// ResourceNode is one version of a virtual resource in the dependency graph.
// Each write to a resource produces a new node; reads reference the node for
// the version they were declared against. The per-node discard booleans are
// computed during compile and consulted by render-target entries when they
// refresh their per-pass flags.
type ResourceNode struct {
	// entryIndex locates the TextureEntry this node is a version of.
	entryIndex int

	// version of the entry this node represents.
	version uint16

	// writer is the pass producing this version, nil if the version exists
	// without a producer (freshly declared or imported content).
	writer *PassNode

	// readerCount is the number of non-culled passes reading this version.
	// Decremented during culling; a version nobody reads lets its writer
	// be culled unless the writer has side effects.
	readerCount uint32

	// discardStart is true when this version's contents need not be loaded
	// at the start of the producing pass: the producer writes the resource
	// without reading any earlier version.
	discardStart bool

	// discardEnd is true when this version's contents need not be
	// preserved once its last use ends: no pass reads it.
	discardEnd bool
}

// PassNode is one scheduled operation in the graph: its declared name, the
// resource versions it reads and writes, and the render targets it uses.
type PassNode struct {
	// name is the display name used in diagnostics.
	name string

	// reads and writes are the resource versions declared by the pass.
	reads  []Handle
	writes []Handle

	// targets are indices of the render-target entries the pass uses,
	// whether declared by it or acquired from another pass.
	targets []int

	// sideEffect marks a pass that must survive culling even if nothing
	// reads its outputs (e.g. a pass presenting to the screen).
	sideEffect bool

	// culled is set during compile for passes that produce nothing
	// observable. Culled passes do not execute.
	culled bool

	// devirtualize and destroy list the entries whose real objects must be
	// created before, respectively released after, this pass executes.
	devirtualize []resourceEntry
	destroy      []resourceEntry

	// execute is the pass's execution callback.
	execute func(res *Resources)
}

// Name returns the pass's display name.
func (p *PassNode) Name() string { return p.name }

// Culled reports whether compile removed the pass from the schedule.
func (p *PassNode) Culled() bool { return p.culled }

// readsEntryUpTo reports whether the pass reads any version of the given
// entry at or below the given version. Used to decide whether the producer
// of a version depends on the resource's prior contents.
func (p *PassNode) readsEntryUpTo(fg *FrameGraph, entryIndex int, version uint16) bool {
	for _, h := range p.reads {
		n := fg.resourceNode(h)
		if n.entryIndex == entryIndex && n.version <= version {
			return true
		}
	}
	return false
}

// declares reports whether the pass declared the given resource version as
// a read or a write.
func (p *PassNode) declares(h Handle) bool {
	for _, r := range p.reads {
		if r == h {
			return true
		}
	}
	for _, w := range p.writes {
		if w == h {
			return true
		}
	}
	return false
}

// usesTarget reports whether the pass uses the render-target entry at the
// given index.
func (p *PassNode) usesTarget(index int) bool {
	for _, t := range p.targets {
		if t == index {
			return true
		}
	}
	return false
}
