package framegraph

// Attachment slots of a composite render target. The slot index selects the
// corresponding TargetBufferFlags bit.
const (
	// AttachmentColor is the color attachment slot.
	AttachmentColor = iota

	// AttachmentDepth is the depth attachment slot.
	AttachmentDepth

	// AttachmentStencil is the stencil attachment slot.
	AttachmentStencil

	// AttachmentCount is the number of attachment slots.
	AttachmentCount
)

// slotFlags maps an attachment slot index to its buffer flag.
var slotFlags = [AttachmentCount]TargetBufferFlags{
	TargetBufferColor,
	TargetBufferDepth,
	TargetBufferStencil,
}

// Attachment names a virtual texture, and a mip level within it, used as one
// attachment of a render target. The zero value is an unset attachment.
type Attachment struct {
	// Handle is the virtual texture backing this attachment.
	Handle Handle

	// Level is the mip level of the texture rendered into.
	Level uint8
}

// NewAttachment returns an attachment for the base mip level of h.
func NewAttachment(h Handle) Attachment {
	return Attachment{Handle: h}
}

// IsValid reports whether the attachment references a declared texture.
func (a Attachment) IsValid() bool {
	return a.Handle.IsValid()
}

// AttachmentSet holds the attachments of a composite render target, indexed
// by slot (AttachmentColor, AttachmentDepth, AttachmentStencil). Unset slots
// are simply left at their zero value:
//
//	framegraph.AttachmentSet{
//	    framegraph.AttachmentColor: framegraph.NewAttachment(color),
//	    framegraph.AttachmentDepth: framegraph.NewAttachment(depth),
//	}
type AttachmentSet [AttachmentCount]Attachment

// Flags returns the buffer flags of the populated slots. The result is a
// pure function of slot validity: a slot's bit is set iff its attachment
// references a declared texture.
func (s AttachmentSet) Flags() TargetBufferFlags {
	var flags TargetBufferFlags
	for i, a := range s {
		if a.IsValid() {
			flags |= slotFlags[i]
		}
	}
	return flags
}
