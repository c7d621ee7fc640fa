package processor

import "github.com/disintegration/imaging"

// EnsureAlpha returns a copy of buf carrying an alpha channel, pixels unchanged.
//
// It backs the remove-background operation, which does not segment anything: opaque
// inputs stay opaque. Real matting would replace this function.
func EnsureAlpha(buf *ImageBuffer) *ImageBuffer {
	return buf.derive(imaging.Clone(buf.Image))
}
