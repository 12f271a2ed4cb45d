package framegraph

import "testing"

func TestBlackboardZeroValue(t *testing.T) {
	var b Blackboard
	if b.Get("missing").IsValid() {
		t.Error("Get on empty blackboard returned a valid handle")
	}
	b.Remove("missing") // must not panic
}

func TestBlackboardPutGet(t *testing.T) {
	var b Blackboard
	h := makeHandle(2, 0)
	b.Put("depth", h)
	if got := b.Get("depth"); got != h {
		t.Errorf("Get(depth) = %+v, want %+v", got, h)
	}

	// Later registration replaces the earlier one.
	h2 := makeHandle(3, 1)
	b.Put("depth", h2)
	if got := b.Get("depth"); got != h2 {
		t.Errorf("Get(depth) after replace = %+v, want %+v", got, h2)
	}
}

func TestBlackboardRemove(t *testing.T) {
	var b Blackboard
	b.Put("color", makeHandle(1, 0))
	b.Remove("color")
	if b.Get("color").IsValid() {
		t.Error("handle still registered after Remove")
	}
}

func TestBlackboardSharedAcrossPasses(t *testing.T) {
	fg := New(&recordingAllocator{})

	AddPass(fg, "producer", func(b *Builder, d *colorPass) {
		d.color = b.CreateTexture("color", TextureDescriptor{Width: 8, Height: 8})
		d.color = b.Write(d.color)
		fg.Blackboard().Put("scene color", d.color)
	}, nil)

	var looked Handle
	AddPass(fg, "consumer", func(b *Builder, d *colorPass) {
		looked = b.Read(fg.Blackboard().Get("scene color"))
		b.SideEffect()
	}, nil)

	fg.Compile()
	if !looked.IsValid() {
		t.Fatal("consumer did not find the published handle")
	}
	if fg.passes[0].Culled() {
		t.Error("producer culled despite blackboard-mediated read")
	}
}
