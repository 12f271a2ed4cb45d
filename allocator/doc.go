// Package allocator provides a caching framegraph.Allocator backed by
// gogpu/wgpu.
//
// # Overview
//
// A frame graph creates and destroys its transient resources every frame.
// Creating GPU textures is expensive, so the Pool does not destroy textures
// immediately: destroyed textures are parked in an LRU cache keyed by their
// descriptor, and a later create with an identical descriptor reuses the
// parked object instead of allocating a new one. Textures that age out of
// the cache are destroyed for real.
//
// Composite render targets are cheap (a handful of texture views), so they
// are built per create and torn down per destroy.
//
// # Usage
//
//	pool, err := allocator.New(device, allocator.Options{})
//	if err != nil { ... }
//	defer pool.Destroy()
//
//	fg := framegraph.New(pool)
package allocator
