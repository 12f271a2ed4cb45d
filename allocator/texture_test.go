package allocator

import (
	"testing"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/gputypes"
)

func TestTextureAccessors(t *testing.T) {
	tex := &Texture{name: "probe", desc: framegraph.TextureDescriptor{
		Width: 640, Height: 480,
		Format: gputypes.TextureFormatRGBA8Unorm,
	}}

	if tex.Width() != 640 || tex.Height() != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", tex.Width(), tex.Height())
	}
	if tex.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v", tex.Format())
	}
	// Unset sample count reads as single-sampled.
	if tex.SampleCount() != 1 {
		t.Errorf("SampleCount() = %d, want 1", tex.SampleCount())
	}

	tex.desc.Samples = 4
	if tex.SampleCount() != 4 {
		t.Errorf("SampleCount() = %d, want 4", tex.SampleCount())
	}
}

func TestRenderTargetAccessors(t *testing.T) {
	rt := &RenderTarget{
		name:        "probe",
		attachments: framegraph.TargetBufferColor | framegraph.TargetBufferDepth,
		width:       320,
		height:      200,
		samples:     2,
	}

	if rt.Attachments() != framegraph.TargetBufferColor|framegraph.TargetBufferDepth {
		t.Errorf("Attachments() = %v", rt.Attachments())
	}
	if rt.Width() != 320 || rt.Height() != 200 {
		t.Errorf("dimensions = %dx%d, want 320x200", rt.Width(), rt.Height())
	}
	if rt.SampleCount() != 2 {
		t.Errorf("SampleCount() = %d, want 2", rt.SampleCount())
	}
	if rt.ColorView() != nil || rt.DepthView() != nil || rt.StencilView() != nil {
		t.Error("zero-constructed target has non-nil views")
	}
}
