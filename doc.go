// Package framegraph provides a render-pass scheduling engine built around
// virtual resources.
//
// # Overview
//
// Rendering code declares logical ("virtual") textures and render targets and
// wires them together through a directed graph of passes. The engine decides,
// independently of declaration order, when the real backing GPU objects are
// allocated and when they are released: resources come into existence on the
// first pass that needs them and are torn down after the last pass that
// references them, so GPU memory is reused aggressively.
//
// # Quick Start
//
//	import "github.com/gogpu/framegraph"
//
//	fg := framegraph.New(alloc)
//
//	type colorPass struct {
//	    color  framegraph.Handle
//	    target framegraph.RenderTargetHandle
//	}
//
//	data := framegraph.AddPass(fg, "color",
//	    func(b *framegraph.Builder, d *colorPass) {
//	        d.color = b.CreateTexture("color buffer", framegraph.TextureDescriptor{
//	            Width:  1280,
//	            Height: 720,
//	            Format: gputypes.TextureFormatRGBA8Unorm,
//	        })
//	        d.target = b.CreateRenderTarget("color target", framegraph.RenderTargetDescriptor{
//	            Attachments: framegraph.AttachmentSet{
//	                framegraph.AttachmentColor: framegraph.NewAttachment(d.color),
//	            },
//	        })
//	    },
//	    func(res *framegraph.Resources, d *colorPass) {
//	        target, params := res.RenderTarget(d.target)
//	        _ = target // begin a render pass with target and params
//	        _ = params
//	    })
//
//	fg.Compile()
//	err := fg.Execute()
//
// # Lifecycle
//
// A frame runs through three stages:
//
//  1. Declaration: passes are added with AddPass; their setup callbacks
//     declare the textures and render targets they read and write.
//  2. Compile: passes that produce nothing observable are culled, resource
//     lifetimes are computed, and every render target infers its active
//     attachments and backing-store dimensions from its attachment textures.
//  3. Execute: for each surviving pass, in order, per-pass clear/discard
//     flags are refreshed, resources first needed by the pass are
//     devirtualized, the pass executes, and resources last used by the pass
//     are destroyed.
//
// A FrameGraph is single-use: build, compile, and execute it once per frame.
//
// # Allocation
//
// The graph itself never talks to the GPU. All object creation and
// destruction goes through the Allocator interface; the allocator
// subpackage provides a caching implementation over gogpu/wgpu.
//
// # Logging
//
// framegraph produces no log output by default. Call SetLogger to enable
// structured logging via log/slog.
package framegraph
