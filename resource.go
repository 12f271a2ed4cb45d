package framegraph

// resourceEntry is the capability set common to every virtual-resource kind.
// Concrete kinds (TextureEntry, RenderTargetEntry) implement the lifecycle
// steps the graph drives in compiled pass order; the render-target kind
// composes texture-kind entries rather than embedding them.
type resourceEntry interface {
	// base returns the bookkeeping shared by all entry kinds.
	base() *entryBase

	// preExecuteDevirtualize creates the real backing object, once, on the
	// first pass that needs it. Allocation failure is unrecoverable and
	// aborts the frame.
	preExecuteDevirtualize(fg *FrameGraph) error

	// postExecuteDestroy releases the real backing object after the last
	// referencing pass has executed.
	postExecuteDestroy(fg *FrameGraph)

	// postExecuteDevirtualize runs after the first pass that used the real
	// object has executed.
	postExecuteDevirtualize(fg *FrameGraph)
}

// entryBase is the bookkeeping shared by all resource-entry kinds.
type entryBase struct {
	// name is the debug name given at declaration time.
	name string

	// imported marks a resource backed by an externally supplied real
	// object whose lifetime the graph does not manage.
	imported bool

	// version counts writes to the resource; each write produces a new
	// resource node referencing this entry at the bumped version.
	version uint16

	// refs counts references from non-culled passes. Computed during
	// compile; an entry with zero refs is never devirtualized.
	refs uint32

	// first and last are the passes framing the entry's lifetime: the real
	// object is created before first executes and released after last
	// executes. Computed during compile.
	first *PassNode
	last  *PassNode
}

func (b *entryBase) base() *entryBase { return b }

// Name returns the debug name given at declaration time.
func (b *entryBase) Name() string { return b.name }

// Imported reports whether the backing object is externally supplied.
func (b *entryBase) Imported() bool { return b.imported }
