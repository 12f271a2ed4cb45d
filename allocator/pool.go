// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package allocator

import (
	"errors"
	"fmt"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Allocator errors.
var (
	// ErrNilDevice is returned when creating a pool without a device.
	ErrNilDevice = errors.New("allocator: device is nil")
)

// DefaultCacheSize is the number of recycled textures kept around when
// Options.CacheSize is unset.
const DefaultCacheSize = 64

// Options configures a Pool.
type Options struct {
	// CacheSize is the maximum number of recycled textures kept alive.
	// Zero selects DefaultCacheSize.
	CacheSize int
}

// recycleKey identifies a parked texture. The serial disambiguates multiple
// parked textures with identical descriptors.
type recycleKey struct {
	desc   framegraph.TextureDescriptor
	serial uint64
}

// recycled is a parked texture. taken is set when the texture is pulled out
// for reuse, so the LRU eviction callback knows not to destroy it.
type recycled struct {
	tex   *Texture
	taken bool
}

// Pool is a caching framegraph.Allocator over a gogpu/wgpu device.
//
// Pool is not safe for concurrent use; the frame graph drives it from a
// single goroutine in pass order.
type Pool struct {
	device hal.Device
	cache  *lru.Cache[recycleKey, *recycled]
	serial uint64
}

// New creates a pool allocating through the given device.
func New(device hal.Device, opts Options) (*Pool, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	p := &Pool{device: device}
	cache, err := lru.NewWithEvict(size, p.onEvict)
	if err != nil {
		return nil, fmt.Errorf("allocator: create recycle cache: %w", err)
	}
	p.cache = cache
	return p, nil
}

// onEvict destroys textures that age out of the recycle cache.
func (p *Pool) onEvict(_ recycleKey, r *recycled) {
	if !r.taken {
		r.tex.destroy(p.device)
	}
}

// CreateTexture returns a texture matching desc, reusing a recycled one
// when available.
func (p *Pool) CreateTexture(name string, desc framegraph.TextureDescriptor) (framegraph.Texture, error) {
	if t := p.takeRecycled(desc); t != nil {
		t.name = name
		framegraph.Logger().Debug("texture recycled", "name", name,
			"width", desc.Width, "height", desc.Height)
		return t, nil
	}

	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label: name,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: desc.Depth,
		},
		MipLevelCount: uint32(desc.Levels),
		SampleCount:   uint32(desc.Samples),
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("allocator: create texture %q: %w", name, err)
	}

	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: name + " view",
	})
	if err != nil {
		p.device.DestroyTexture(tex)
		return nil, fmt.Errorf("allocator: create texture view %q: %w", name, err)
	}

	return &Texture{name: name, desc: desc, tex: tex, view: view}, nil
}

// DestroyTexture parks the texture in the recycle cache. The texture is
// destroyed for real when it ages out.
func (p *Pool) DestroyTexture(t framegraph.Texture) {
	pt, ok := t.(*Texture)
	if !ok {
		panic(fmt.Sprintf("allocator: foreign texture %T", t))
	}
	p.serial++
	p.cache.Add(recycleKey{desc: pt.desc, serial: p.serial}, &recycled{tex: pt})
}

// takeRecycled pulls a parked texture with an identical descriptor out of
// the cache, or returns nil. The cache is small, so a linear key scan is
// fine.
func (p *Pool) takeRecycled(desc framegraph.TextureDescriptor) *Texture {
	for _, k := range p.cache.Keys() {
		if k.desc != desc {
			continue
		}
		r, ok := p.cache.Peek(k)
		if !ok {
			continue
		}
		r.taken = true
		p.cache.Remove(k)
		return r.tex
	}
	return nil
}

// CreateRenderTarget builds a composite target from the resolved attachment
// bindings. Each active slot gets its own single-level view.
func (p *Pool) CreateRenderTarget(name string, info framegraph.RenderTargetInfo) (framegraph.RenderTarget, error) {
	samples := uint32(info.Samples)
	if samples == 0 {
		samples = 1
	}
	rt := &RenderTarget{
		name:        name,
		attachments: info.Attachments,
		width:       info.Width,
		height:      info.Height,
		samples:     samples,
	}

	slots := []struct {
		flag    framegraph.TargetBufferFlags
		binding framegraph.TargetBufferInfo
		view    *hal.TextureView
		suffix  string
	}{
		{framegraph.TargetBufferColor, info.Color, &rt.colorView, " color"},
		{framegraph.TargetBufferDepth, info.Depth, &rt.depthView, " depth"},
		{framegraph.TargetBufferStencil, info.Stencil, &rt.stencilView, " stencil"},
	}
	for _, s := range slots {
		if !info.Attachments.Has(s.flag) {
			continue
		}
		tex, ok := s.binding.Texture.(*Texture)
		if !ok {
			panic(fmt.Sprintf("allocator: foreign attachment texture %T", s.binding.Texture))
		}
		view, err := p.device.CreateTextureView(tex.tex, &hal.TextureViewDescriptor{
			Label:         name + s.suffix,
			Format:        gputypes.TextureFormatUndefined, // inherit from texture
			Dimension:     gputypes.TextureViewDimensionUndefined,
			Aspect:        gputypes.TextureAspectAll,
			BaseMipLevel:  uint32(s.binding.Level),
			MipLevelCount: 1,
		})
		if err != nil {
			rt.destroyViews(p.device)
			return nil, fmt.Errorf("allocator: create render target %q%s view: %w", name, s.suffix, err)
		}
		*s.view = view
	}
	return rt, nil
}

// DestroyRenderTarget releases the target's attachment views. The attachment
// textures themselves are owned by their texture entries and stay alive.
func (p *Pool) DestroyRenderTarget(rt framegraph.RenderTarget) {
	prt, ok := rt.(*RenderTarget)
	if !ok {
		panic(fmt.Sprintf("allocator: foreign render target %T", rt))
	}
	prt.destroyViews(p.device)
}

// Destroy empties the recycle cache, destroying every parked texture. The
// pool must not be used afterwards.
func (p *Pool) Destroy() {
	p.cache.Purge()
}

// Ensure Pool implements framegraph.Allocator.
var _ framegraph.Allocator = (*Pool)(nil)
