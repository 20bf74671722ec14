//go:build !ios && !android && (amd64 || arm64)

package vsgo_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/vsgo"
)

func clipInfo(f vsgo.PixelFormat, w, h int) vsgo.ClipInfo {
	return vsgo.ClipInfo{
		Width:      w,
		Height:     h,
		NumFrames:  1,
		FrameSize:  vsgo.FrameSize(&f, w, h),
		PackedSize: vsgo.PackedSize(&f, w, h),
		Format:     f,
	}
}

func TestFrameImage_Gray8(t *testing.T) {
	info := clipInfo(vsgo.FormatGray8, 4, 2)
	buf := []byte{0, 10, 20, 30, 40, 50, 60, 70}

	img, err := vsgo.FrameImage(info, buf)
	require.NoError(t, err)
	gray, ok := img.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 4, 2), gray.Bounds())
	assert.Equal(t, color.Gray{Y: 50}, gray.GrayAt(1, 1))
}

func TestFrameImage_Gray16(t *testing.T) {
	info := clipInfo(vsgo.FormatGray16, 2, 1)
	buf := []byte{0x34, 0x12, 0xff, 0x00}

	img, err := vsgo.FrameImage(info, buf)
	require.NoError(t, err)
	gray, ok := img.(*image.Gray16)
	require.True(t, ok)
	assert.Equal(t, color.Gray16{Y: 0x1234}, gray.Gray16At(0, 0))
	assert.Equal(t, color.Gray16{Y: 0x00ff}, gray.Gray16At(1, 0))
}

func TestFrameImage_YUV420(t *testing.T) {
	info := clipInfo(vsgo.FormatYUV420P8, 4, 2)
	buf := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		100, 101, // U
		200, 201, // V
	}

	img, err := vsgo.FrameImage(info, buf)
	require.NoError(t, err)
	ycc, ok := img.(*image.YCbCr)
	require.True(t, ok)
	assert.Equal(t, image.YCbCrSubsampleRatio420, ycc.SubsampleRatio)
	assert.Equal(t, color.YCbCr{Y: 7, Cb: 101, Cr: 201}, ycc.YCbCrAt(2, 1))
	assert.Equal(t, color.YCbCr{Y: 1, Cb: 100, Cr: 200}, ycc.YCbCrAt(0, 0))
}

func TestFrameImage_YUV420OddSize(t *testing.T) {
	info := clipInfo(vsgo.FormatYUV420P8, 3, 3)
	buf := make([]byte, info.PackedSize)
	// 9 luma bytes, then one 1x1 chroma sample per plane.
	buf[9], buf[10] = 90, 160

	img, err := vsgo.FrameImage(info, buf)
	require.NoError(t, err)
	ycc := img.(*image.YCbCr)
	assert.Equal(t, uint8(90), ycc.YCbCrAt(2, 2).Cb)
	assert.Equal(t, uint8(160), ycc.YCbCrAt(2, 2).Cr)
}

func TestFrameImage_RGB24(t *testing.T) {
	info := clipInfo(vsgo.FormatRGB24, 2, 1)
	buf := []byte{10, 11, 20, 21, 30, 31}

	img, err := vsgo.FrameImage(info, buf)
	require.NoError(t, err)
	rgba, ok := img.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 11, G: 21, B: 31, A: 255}, rgba.RGBAAt(1, 0))
}

func TestFrameImage_Unsupported(t *testing.T) {
	info := clipInfo(vsgo.FormatYUV420P10, 4, 4)
	_, err := vsgo.FrameImage(info, make([]byte, info.PackedSize))
	assert.ErrorIs(t, err, vsgo.ErrUnsupportedImage)

	info = clipInfo(vsgo.FormatYUV420P8, 4, 4)
	_, err = vsgo.FrameImage(info, make([]byte, info.PackedSize-1))
	assert.ErrorIs(t, err, vsgo.ErrBufferTooSmall)
}
