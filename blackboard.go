package framegraph

// Blackboard is a name-to-handle registry shared by all passes of a graph.
// It decouples producers from consumers: a pass publishes the handle of a
// resource it writes under a well-known name, and later passes look it up
// without referencing the producer's pass data directly.
//
// The zero value is ready to use via FrameGraph.Blackboard.
type Blackboard struct {
	handles map[string]Handle
}

// Put registers h under name, replacing any previous registration.
func (b *Blackboard) Put(name string, h Handle) {
	if b.handles == nil {
		b.handles = make(map[string]Handle)
	}
	b.handles[name] = h
}

// Get returns the handle registered under name. The result is the invalid
// zero Handle when nothing is registered; check with Handle.IsValid.
func (b *Blackboard) Get(name string) Handle {
	return b.handles[name]
}

// Remove drops the registration under name, if any.
func (b *Blackboard) Remove(name string) {
	delete(b.handles, name)
}
