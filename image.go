//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"fmt"
	"image"
)

// FrameImage wraps or converts a buffer filled by a frame fetch into an
// image.Image. Supported are 8- and 16-bit Gray, 8-bit YUV with a
// subsampling image.YCbCr can represent, and 8-bit planar RGB. The result
// may alias buf.
func FrameImage(info ClipInfo, buf []byte) (image.Image, error) {
	f := info.Format
	if len(buf) < info.PackedSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrBufferTooSmall, len(buf), info.PackedSize)
	}
	if f.SampleType != SampleTypeInteger {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, f.Name)
	}

	w, h := info.Width, info.Height
	rect := image.Rect(0, 0, w, h)

	switch {
	case f.ColorFamily == ColorFamilyGray && f.BytesPerSample == 1:
		return &image.Gray{Pix: buf[:w*h], Stride: w, Rect: rect}, nil

	case f.ColorFamily == ColorFamilyGray && f.BytesPerSample == 2:
		img := image.NewGray16(rect)
		// Samples are native little-endian, image.Gray16 is big-endian.
		for i := 0; i < w*h; i++ {
			img.Pix[2*i] = buf[2*i+1]
			img.Pix[2*i+1] = buf[2*i]
		}
		return img, nil

	case f.ColorFamily == ColorFamilyYUV && f.BytesPerSample == 1 && f.NumPlanes == 3:
		ratio, ok := ycbcrRatio(f.SubSamplingW, f.SubSamplingH)
		if !ok {
			break
		}
		return yuvImage(f, ratio, w, h, buf), nil

	case f.ColorFamily == ColorFamilyRGB && f.BytesPerSample == 1 && f.NumPlanes == 3:
		img := image.NewRGBA(rect)
		n := w * h
		r, g, b := buf[:n], buf[n:2*n], buf[2*n:3*n]
		for i := 0; i < n; i++ {
			img.Pix[4*i] = r[i]
			img.Pix[4*i+1] = g[i]
			img.Pix[4*i+2] = b[i]
			img.Pix[4*i+3] = 0xff
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, f.Name)
}

func ycbcrRatio(ssW, ssH int) (image.YCbCrSubsampleRatio, bool) {
	switch [2]int{ssW, ssH} {
	case [2]int{0, 0}:
		return image.YCbCrSubsampleRatio444, true
	case [2]int{1, 0}:
		return image.YCbCrSubsampleRatio422, true
	case [2]int{1, 1}:
		return image.YCbCrSubsampleRatio420, true
	case [2]int{0, 1}:
		return image.YCbCrSubsampleRatio440, true
	case [2]int{2, 0}:
		return image.YCbCrSubsampleRatio411, true
	case [2]int{2, 1}:
		return image.YCbCrSubsampleRatio410, true
	}
	return 0, false
}

// yuvImage copies packed Y, U and V planes into an image.YCbCr. Chroma planes
// of odd-sized clips are one sample short of what image.YCbCr expects; the
// last column and row are repeated.
func yuvImage(f PixelFormat, ratio image.YCbCrSubsampleRatio, w, h int, buf []byte) *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, w, h), ratio)
	for y := 0; y < h; y++ {
		copy(img.Y[y*img.YStride:y*img.YStride+w], buf[y*w:(y+1)*w])
	}

	cw, ch := f.PlaneDimensions(1, w, h)
	if cw == 0 || ch == 0 {
		return img
	}
	cb := buf[w*h : w*h+cw*ch]
	cr := buf[w*h+cw*ch : w*h+2*cw*ch]
	rows := len(img.Cb) / img.CStride
	for y := 0; y < rows; y++ {
		sy := min(y, ch-1)
		copyChromaRow(img.Cb[y*img.CStride:(y+1)*img.CStride], cb[sy*cw:(sy+1)*cw])
		copyChromaRow(img.Cr[y*img.CStride:(y+1)*img.CStride], cr[sy*cw:(sy+1)*cw])
	}
	return img
}

func copyChromaRow(dst, src []byte) {
	n := copy(dst, src)
	if n == 0 {
		return
	}
	for i := n; i < len(dst); i++ {
		dst[i] = src[n-1]
	}
}
