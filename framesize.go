//go:build !ios && !android && (amd64 || arm64)

package vsgo

// FrameSize returns the number of bytes one frame occupies when its planes
// are copied back to back, row by row, without padding.
//
// The chroma term is counted twice whenever it is non-zero: the layout
// assumes exactly two chroma planes. A single-plane format must therefore
// report subsampling that zeroes the chroma row, or the result overcounts;
// PackedSize gives the exact per-plane sum. A nil format yields 0.
func FrameSize(f *PixelFormat, width, height int) int {
	if f == nil {
		return 0
	}

	size := 0
	if chromaRow := (width * f.BytesPerSample) >> f.SubSamplingW; chromaRow != 0 {
		size = chromaRow * (height >> f.SubSamplingH) * 2
	}
	size += width * f.BytesPerSample * height

	return size
}

// PackedSize returns the exact number of bytes a fetch writes: the sum over
// the format's planes of plane width * bytes per sample * plane height.
func PackedSize(f *PixelFormat, width, height int) int {
	if f == nil {
		return 0
	}
	size := 0
	for p := 0; p < f.NumPlanes; p++ {
		w, h := f.PlaneDimensions(p, width, height)
		size += w * f.BytesPerSample * h
	}
	return size
}
