package framegraph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
)

// fakeTexture is a minimal Texture for tests.
type fakeTexture struct {
	name string
	desc TextureDescriptor
}

func (t *fakeTexture) Width() uint32                  { return t.desc.Width }
func (t *fakeTexture) Height() uint32                 { return t.desc.Height }
func (t *fakeTexture) Format() gputypes.TextureFormat { return t.desc.Format }
func (t *fakeTexture) SampleCount() uint32 {
	if t.desc.Samples == 0 {
		return 1
	}
	return uint32(t.desc.Samples)
}

// fakeTarget is a minimal RenderTarget for tests.
type fakeTarget struct {
	name string
	info RenderTargetInfo
}

func (t *fakeTarget) Attachments() TargetBufferFlags { return t.info.Attachments }
func (t *fakeTarget) Width() uint32                  { return t.info.Width }
func (t *fakeTarget) Height() uint32                 { return t.info.Height }
func (t *fakeTarget) SampleCount() uint32 {
	if t.info.Samples == 0 {
		return 1
	}
	return uint32(t.info.Samples)
}

// recordingAllocator records every create/destroy in order.
type recordingAllocator struct {
	events      []string
	targetInfos map[string]RenderTargetInfo

	failTexture bool
	failTarget  bool
}

var errFakeAlloc = errors.New("fake allocation failure")

func (a *recordingAllocator) CreateTexture(name string, desc TextureDescriptor) (Texture, error) {
	if a.failTexture {
		return nil, errFakeAlloc
	}
	a.events = append(a.events, "create texture "+name)
	return &fakeTexture{name: name, desc: desc}, nil
}

func (a *recordingAllocator) DestroyTexture(t Texture) {
	a.events = append(a.events, "destroy texture "+t.(*fakeTexture).name)
}

func (a *recordingAllocator) CreateRenderTarget(name string, info RenderTargetInfo) (RenderTarget, error) {
	if a.failTarget {
		return nil, errFakeAlloc
	}
	a.events = append(a.events, "create target "+name)
	if a.targetInfos == nil {
		a.targetInfos = make(map[string]RenderTargetInfo)
	}
	a.targetInfos[name] = info
	return &fakeTarget{name: name, info: info}, nil
}

func (a *recordingAllocator) DestroyRenderTarget(rt RenderTarget) {
	a.events = append(a.events, "destroy target "+rt.(*fakeTarget).name)
}

func (a *recordingAllocator) count(event string) int {
	n := 0
	for _, e := range a.events {
		if e == event {
			n++
		}
	}
	return n
}

// colorPass is the pass data used by most graph tests.
type colorPass struct {
	color  Handle
	target RenderTargetHandle
}

func TestNewNilAllocatorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New(nil) did not panic")
		}
	}()
	New(nil)
}

func TestCompileCullsUnreadPass(t *testing.T) {
	alloc := &recordingAllocator{}
	fg := New(alloc)

	executed := false
	AddPass(fg, "dead", func(b *Builder, d *colorPass) {
		d.color = b.CreateTexture("dead color", TextureDescriptor{Width: 16, Height: 16})
		d.color = b.Write(d.color)
	}, func(res *Resources, d *colorPass) {
		executed = true
	})

	fg.Compile()
	if err := fg.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	if executed {
		t.Error("culled pass executed")
	}
	if !fg.passes[0].Culled() {
		t.Error("pass with unread outputs not culled")
	}
	if len(alloc.events) != 0 {
		t.Errorf("allocator touched for culled pass: %v", alloc.events)
	}
}

func TestCullingCascades(t *testing.T) {
	alloc := &recordingAllocator{}
	fg := New(alloc)

	producer := AddPass(fg, "producer", func(b *Builder, d *colorPass) {
		d.color = b.CreateTexture("intermediate", TextureDescriptor{Width: 16, Height: 16})
		d.color = b.Write(d.color)
	}, nil)

	// Consumer reads the intermediate but nobody reads the consumer.
	AddPass(fg, "consumer", func(b *Builder, d *colorPass) {
		b.Read(producer.color)
		d.color = b.CreateTexture("final", TextureDescriptor{Width: 16, Height: 16})
		d.color = b.Write(d.color)
	}, nil)

	fg.Compile()

	for i, p := range fg.passes {
		if !p.Culled() {
			t.Errorf("pass %d (%s) not culled", i, p.Name())
		}
	}
}

func TestSideEffectSurvivesCulling(t *testing.T) {
	alloc := &recordingAllocator{}
	fg := New(alloc)

	executed := false
	AddPass(fg, "present", func(b *Builder, d *colorPass) {
		b.SideEffect()
	}, func(res *Resources, d *colorPass) {
		executed = true
	})

	fg.Compile()
	if err := fg.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !executed {
		t.Error("side-effect pass was culled")
	}
}

// TestLifetimes drives a three-pass chain and checks that every live
// resource is devirtualized exactly once, on its first pass, and destroyed
// exactly once, right after its last pass.
func TestLifetimes(t *testing.T) {
	alloc := &recordingAllocator{}
	fg := New(alloc)

	passA := AddPass(fg, "gbuffer", func(b *Builder, d *colorPass) {
		d.color = b.CreateTexture("colorA", TextureDescriptor{
			Width: 64, Height: 64, Format: gputypes.TextureFormatRGBA8Unorm,
		})
		d.target = b.CreateRenderTarget("rtA", RenderTargetDescriptor{
			Attachments: AttachmentSet{AttachmentColor: NewAttachment(d.color)},
		})
	}, nil)

	passB := AddPass(fg, "lighting", func(b *Builder, d *colorPass) {
		b.Read(passA.color)
		d.color = b.CreateTexture("colorB", TextureDescriptor{
			Width: 64, Height: 64, Format: gputypes.TextureFormatRGBA8Unorm,
		})
		d.target = b.CreateRenderTarget("rtB", RenderTargetDescriptor{
			Attachments: AttachmentSet{AttachmentColor: NewAttachment(d.color)},
		})
	}, nil)

	AddPass(fg, "present", func(b *Builder, d *colorPass) {
		b.Read(passB.color)
		b.SideEffect()
	}, nil)

	fg.Compile()
	if err := fg.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	want := []string{
		"create texture colorA",
		"create target rtA",
		"destroy target rtA",
		"create texture colorB",
		"create target rtB",
		"destroy target rtB",
		"destroy texture colorA",
		"destroy texture colorB",
	}
	if fmt.Sprint(alloc.events) != fmt.Sprint(want) {
		t.Errorf("allocator events:\n got %v\nwant %v", alloc.events, want)
	}

	if got := alloc.targetInfos["rtA"].Attachments; got != TargetBufferColor {
		t.Errorf("rtA active slots = %v, want Color", got)
	}

	for _, e := range []string{"colorA", "colorB"} {
		if n := alloc.count("create texture " + e); n != 1 {
			t.Errorf("texture %s created %d times, want 1", e, n)
		}
		if n := alloc.count("destroy texture " + e); n != 1 {
			t.Errorf("texture %s destroyed %d times, want 1", e, n)
		}
	}
}

func TestExecuteReturnsAllocatorFailure(t *testing.T) {
	alloc := &recordingAllocator{failTexture: true}
	fg := New(alloc)

	AddPass(fg, "draw", func(b *Builder, d *colorPass) {
		d.color = b.CreateTexture("color", TextureDescriptor{Width: 8, Height: 8})
		d.target = b.CreateRenderTarget("rt", RenderTargetDescriptor{
			Attachments: AttachmentSet{AttachmentColor: NewAttachment(d.color)},
		})
		b.SideEffect()
	}, nil)

	fg.Compile()
	err := fg.Execute()
	if !errors.Is(err, errFakeAlloc) {
		t.Errorf("Execute() = %v, want wrapped %v", err, errFakeAlloc)
	}
}

func TestExecuteReturnsTargetAllocatorFailure(t *testing.T) {
	alloc := &recordingAllocator{failTarget: true}
	fg := New(alloc)

	AddPass(fg, "draw", func(b *Builder, d *colorPass) {
		d.color = b.CreateTexture("color", TextureDescriptor{Width: 8, Height: 8})
		d.target = b.CreateRenderTarget("rt", RenderTargetDescriptor{
			Attachments: AttachmentSet{AttachmentColor: NewAttachment(d.color)},
		})
		b.SideEffect()
	}, nil)

	fg.Compile()
	err := fg.Execute()
	if !errors.Is(err, errFakeAlloc) {
		t.Errorf("Execute() = %v, want wrapped %v", err, errFakeAlloc)
	}
	// The texture was created before the target creation failed.
	if n := alloc.count("create texture color"); n != 1 {
		t.Errorf("texture created %d times, want 1", n)
	}
}

func TestImportedRenderTarget(t *testing.T) {
	alloc := &recordingAllocator{}
	fg := New(alloc)

	backbuffer := &fakeTarget{name: "backbuffer", info: RenderTargetInfo{
		Attachments: TargetBufferColor,
		Width:       1280,
		Height:      720,
	}}
	imported := fg.ImportRenderTarget("backbuffer", RenderTargetDescriptor{
		ClearFlags: TargetBufferColor,
	}, backbuffer)

	var got [2]RenderTarget
	for i := range 2 {
		AddPass(fg, fmt.Sprintf("pass%d", i), func(b *Builder, d *colorPass) {
			d.target = b.UseRenderTarget(imported)
			b.SideEffect()
		}, func(res *Resources, d *colorPass) {
			got[i], _ = res.RenderTarget(d.target)
		})
	}

	fg.Compile()
	if err := fg.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	// The graph never creates or destroys an imported target.
	if len(alloc.events) != 0 {
		t.Errorf("allocator touched for imported target: %v", alloc.events)
	}
	for i, rt := range got {
		if rt != RenderTarget(backbuffer) {
			t.Errorf("pass %d got target %v, want the imported backbuffer", i, rt)
		}
	}
}

func TestImportedTextureNeverDestroyed(t *testing.T) {
	alloc := &recordingAllocator{}
	fg := New(alloc)

	ext := &fakeTexture{name: "shadow atlas", desc: TextureDescriptor{Width: 2048, Height: 2048}}
	h := fg.ImportTexture("shadow atlas", ext.desc, ext)

	var seen Texture
	AddPass(fg, "sample", func(b *Builder, d *colorPass) {
		d.color = b.Read(h)
		b.SideEffect()
	}, func(res *Resources, d *colorPass) {
		seen = res.Texture(d.color)
	})

	fg.Compile()
	if err := fg.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	if seen != Texture(ext) {
		t.Errorf("pass saw texture %v, want the imported one", seen)
	}
	if len(alloc.events) != 0 {
		t.Errorf("allocator touched for imported texture: %v", alloc.events)
	}
}

func TestUndeclaredResourceAccessPanics(t *testing.T) {
	alloc := &recordingAllocator{}
	fg := New(alloc)

	stranger := AddPass(fg, "producer", func(b *Builder, d *colorPass) {
		d.color = b.CreateTexture("private", TextureDescriptor{Width: 8, Height: 8})
		d.color = b.Write(d.color)
	}, nil)

	AddPass(fg, "reader", func(b *Builder, d *colorPass) {
		b.Read(stranger.color)
		b.SideEffect()
	}, func(res *Resources, d *colorPass) {
		defer func() {
			if recover() == nil {
				t.Error("accessing an undeclared handle did not panic")
			}
		}()
		res.Texture(Handle{}) // never declared
	})

	fg.Compile()
	if err := fg.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
}

func TestCompileTwicePanics(t *testing.T) {
	fg := New(&recordingAllocator{})
	fg.Compile()
	defer func() {
		if recover() == nil {
			t.Fatal("second Compile did not panic")
		}
	}()
	fg.Compile()
}
