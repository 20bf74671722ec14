//go:build !ios && !android && (amd64 || arm64)

package vsgo_test

import (
	"testing"

	"github.com/obinnaokechukwu/vsgo"
)

func TestFrameSize(t *testing.T) {
	yuv444 := vsgo.FormatYUV444P8
	yuv420 := vsgo.FormatYUV420P8
	yuv422 := vsgo.FormatYUV422P8
	yuv420p10 := vsgo.FormatYUV420P10

	tests := []struct {
		name   string
		format *vsgo.PixelFormat
		w, h   int
		want   int
	}{
		{"444 8-bit", &yuv444, 64, 48, 9216},
		{"420 8-bit", &yuv420, 64, 48, 4608},
		{"422 8-bit", &yuv422, 64, 48, 6144},
		{"420 10-bit", &yuv420p10, 64, 48, 9216},
		{"420 1920x1080", &yuv420, 1920, 1080, 3110400},
		{"420 odd height", &yuv420, 64, 47, 4480},
		{"nil format", nil, 64, 48, 0},
		{"zero width", &yuv420, 0, 48, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vsgo.FrameSize(tt.format, tt.w, tt.h); got != tt.want {
				t.Fatalf("FrameSize = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFrameSize_ChromaCountedTwice(t *testing.T) {
	// Gray has no chroma planes but reports no subsampling, so the chroma
	// term is still counted.
	gray := vsgo.FormatGray8
	if got, want := vsgo.FrameSize(&gray, 64, 48), 3*64*48; got != want {
		t.Fatalf("FrameSize(Gray8) = %d, want %d", got, want)
	}

	// A format whose chroma row shifts to zero only counts plane 0.
	f := vsgo.PixelFormat{BytesPerSample: 1, NumPlanes: 1, SubSamplingW: 8, SubSamplingH: 0}
	if got, want := vsgo.FrameSize(&f, 64, 48), 64*48; got != want {
		t.Fatalf("FrameSize = %d, want %d", got, want)
	}
}

func TestPackedSize(t *testing.T) {
	gray := vsgo.FormatGray8
	gray16 := vsgo.FormatGray16
	yuv420 := vsgo.FormatYUV420P8
	rgb := vsgo.FormatRGB24

	tests := []struct {
		name   string
		format *vsgo.PixelFormat
		want   int
	}{
		{"gray8", &gray, 64 * 48},
		{"gray16", &gray16, 2 * 64 * 48},
		{"yuv420", &yuv420, 4608},
		{"rgb24", &rgb, 3 * 64 * 48},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		if got := vsgo.PackedSize(tt.format, 64, 48); got != tt.want {
			t.Errorf("%s: PackedSize = %d, want %d", tt.name, got, tt.want)
		}
	}
}
