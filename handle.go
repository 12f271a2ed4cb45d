package framegraph

// Handle references a virtual resource declared in a FrameGraph.
//
// A Handle is an opaque (index, version) pair into the graph's resource-node
// table. It does not own the backing GPU object; the graph decides when that
// object exists. The zero value is invalid, so an undeclared Handle field is
// always detectable.
//
// Writing to a resource produces a new Handle with a bumped version. A stale
// Handle (one kept across a Write, or taken from another graph) fails the
// version check on lookup instead of silently aliasing the current contents.
type Handle struct {
	// index is the resource-node index biased by one; zero means invalid.
	index   uint16
	version uint16
}

// IsValid reports whether the handle refers to a declared resource.
func (h Handle) IsValid() bool {
	return h.index != 0
}

// nodeIndex returns the unbiased index into the resource-node table.
// Only meaningful when IsValid is true.
func (h Handle) nodeIndex() int {
	return int(h.index) - 1
}

// makeHandle builds a handle for the node at the given table index.
func makeHandle(nodeIndex int, version uint16) Handle {
	return Handle{index: uint16(nodeIndex) + 1, version: version}
}

// RenderTargetHandle references a composite render target declared in a
// FrameGraph. The zero value is invalid.
type RenderTargetHandle struct {
	// index is the target-entry index biased by one; zero means invalid.
	index uint16
}

// IsValid reports whether the handle refers to a declared render target.
func (h RenderTargetHandle) IsValid() bool {
	return h.index != 0
}

func (h RenderTargetHandle) targetIndex() int {
	return int(h.index) - 1
}

func makeRenderTargetHandle(targetIndex int) RenderTargetHandle {
	return RenderTargetHandle{index: uint16(targetIndex) + 1}
}
