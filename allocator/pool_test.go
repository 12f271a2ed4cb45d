package allocator

import (
	"errors"
	"testing"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/gputypes"
	lru "github.com/hashicorp/golang-lru/v2"
)

// newTestPool builds a pool without a device. The recycle paths never touch
// the device, and parked textures in tests carry no GPU handles, so their
// destroy is a no-op.
func newTestPool(t *testing.T, cacheSize int) *Pool {
	t.Helper()
	p := &Pool{}
	cache, err := lru.NewWithEvict(cacheSize, p.onEvict)
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	p.cache = cache
	return p
}

func TestNewNilDevice(t *testing.T) {
	p, err := New(nil, Options{})
	if !errors.Is(err, ErrNilDevice) {
		t.Errorf("New(nil) error = %v, want %v", err, ErrNilDevice)
	}
	if p != nil {
		t.Errorf("New(nil) pool = %v, want nil", p)
	}
}

func TestRecycleRoundTrip(t *testing.T) {
	p := newTestPool(t, 8)

	desc := framegraph.TextureDescriptor{
		Width: 128, Height: 128, Depth: 1, Levels: 1, Samples: 1,
		Format: gputypes.TextureFormatRGBA8Unorm,
	}
	parked := &Texture{name: "old name", desc: desc}
	p.DestroyTexture(parked)

	got, err := p.CreateTexture("reborn", desc)
	if err != nil {
		t.Fatalf("CreateTexture() = %v", err)
	}
	if got != framegraph.Texture(parked) {
		t.Error("CreateTexture did not reuse the parked texture")
	}
	if parked.name != "reborn" {
		t.Errorf("recycled texture name = %q, want %q", parked.name, "reborn")
	}
	if p.cache.Len() != 0 {
		t.Errorf("cache length = %d after reuse, want 0", p.cache.Len())
	}
}

func TestRecycleRequiresExactDescriptor(t *testing.T) {
	p := newTestPool(t, 8)

	desc := framegraph.TextureDescriptor{Width: 128, Height: 128}
	p.DestroyTexture(&Texture{name: "parked", desc: desc})

	other := desc
	other.Width = 256
	if got := p.takeRecycled(other); got != nil {
		t.Errorf("takeRecycled with differing descriptor = %v, want nil", got)
	}
	if p.cache.Len() != 1 {
		t.Errorf("cache length = %d, want 1 (parked texture untouched)", p.cache.Len())
	}
}

func TestRecycleDistinguishesIdenticalDescriptors(t *testing.T) {
	p := newTestPool(t, 8)

	desc := framegraph.TextureDescriptor{Width: 64, Height: 64}
	first := &Texture{name: "first", desc: desc}
	second := &Texture{name: "second", desc: desc}
	p.DestroyTexture(first)
	p.DestroyTexture(second)

	if p.cache.Len() != 2 {
		t.Fatalf("cache length = %d, want 2 (serials disambiguate)", p.cache.Len())
	}

	a := p.takeRecycled(desc)
	b := p.takeRecycled(desc)
	if a == nil || b == nil {
		t.Fatal("parked textures not recovered")
	}
	if a == b {
		t.Error("same texture recovered twice")
	}
	if p.takeRecycled(desc) != nil {
		t.Error("cache yielded more textures than were parked")
	}
}

func TestCacheEviction(t *testing.T) {
	p := newTestPool(t, 1)

	descA := framegraph.TextureDescriptor{Width: 32, Height: 32}
	descB := framegraph.TextureDescriptor{Width: 64, Height: 64}
	p.DestroyTexture(&Texture{name: "a", desc: descA})
	p.DestroyTexture(&Texture{name: "b", desc: descB})

	if p.cache.Len() != 1 {
		t.Fatalf("cache length = %d, want 1", p.cache.Len())
	}
	if p.takeRecycled(descA) != nil {
		t.Error("evicted texture still recoverable")
	}
	if p.takeRecycled(descB) == nil {
		t.Error("most recent texture evicted instead of oldest")
	}
}

func TestPoolDestroyEmptiesCache(t *testing.T) {
	p := newTestPool(t, 8)
	p.DestroyTexture(&Texture{name: "parked", desc: framegraph.TextureDescriptor{Width: 8, Height: 8}})

	p.Destroy()
	if p.cache.Len() != 0 {
		t.Errorf("cache length = %d after Destroy, want 0", p.cache.Len())
	}
}

// foreignTexture implements framegraph.Texture without being pool-owned.
type foreignTexture struct{}

func (foreignTexture) Width() uint32                  { return 1 }
func (foreignTexture) Height() uint32                 { return 1 }
func (foreignTexture) Format() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }
func (foreignTexture) SampleCount() uint32            { return 1 }

func TestDestroyForeignTexturePanics(t *testing.T) {
	p := newTestPool(t, 8)
	defer func() {
		if recover() == nil {
			t.Fatal("DestroyTexture with foreign texture did not panic")
		}
	}()
	p.DestroyTexture(foreignTexture{})
}
