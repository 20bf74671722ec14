//go:build !ios && !android && (amd64 || arm64)

package vsgo

import "fmt"

// ColorFamily groups pixel formats by color model.
type ColorFamily int

const (
	ColorFamilyUndefined ColorFamily = iota
	ColorFamilyGray
	ColorFamilyRGB
	ColorFamilyYUV
	ColorFamilyYCoCg
	ColorFamilyCompat
)

// String returns the color family name.
func (c ColorFamily) String() string {
	switch c {
	case ColorFamilyGray:
		return "Gray"
	case ColorFamilyRGB:
		return "RGB"
	case ColorFamilyYUV:
		return "YUV"
	case ColorFamilyYCoCg:
		return "YCoCg"
	case ColorFamilyCompat:
		return "Compat"
	default:
		return "Undefined"
	}
}

// SampleType distinguishes integer from floating point samples.
type SampleType int

const (
	SampleTypeInteger SampleType = iota
	SampleTypeFloat
)

// String returns the sample type name.
func (s SampleType) String() string {
	if s == SampleTypeFloat {
		return "float"
	}
	return "integer"
}

// PixelFormat describes the sample layout of a clip.
//
// Subsampling applies only to planes 1 and 2; plane 0 is always full
// resolution. SubSamplingW and SubSamplingH are log2 factors.
type PixelFormat struct {
	Name           string      `yaml:"name"`
	ID             int         `yaml:"id"`
	ColorFamily    ColorFamily `yaml:"-"`
	SampleType     SampleType  `yaml:"-"`
	BitsPerSample  int         `yaml:"bits_per_sample"`
	BytesPerSample int         `yaml:"bytes_per_sample"`
	NumPlanes      int         `yaml:"num_planes"`
	SubSamplingW   int         `yaml:"subsampling_w"`
	SubSamplingH   int         `yaml:"subsampling_h"`
}

// String returns a short description such as "YUV420P8 (YUV, 3 planes, 8 bit)".
func (f PixelFormat) String() string {
	return fmt.Sprintf("%s (%s, %d planes, %d bit)", f.Name, f.ColorFamily, f.NumPlanes, f.BitsPerSample)
}

// PlaneDimensions returns the pixel dimensions of plane p for a clip of
// width x height.
func (f PixelFormat) PlaneDimensions(p, width, height int) (w, h int) {
	if p == 0 {
		return width, height
	}
	return width >> f.SubSamplingW, height >> f.SubSamplingH
}

// VideoInfo is the metadata an engine reports for a node.
type VideoInfo struct {
	Format    *PixelFormat // nil when the format varies between frames
	FPSNum    int64
	FPSDen    int64
	Width     int
	Height    int
	NumFrames int
}

// ConstantFormat reports whether format and dimensions are fixed for the
// whole clip.
func (vi VideoInfo) ConstantFormat() bool {
	return vi.Format != nil && vi.Width > 0 && vi.Height > 0
}

// Common formats, matching the VapourSynth presets.
var (
	FormatGray8 = PixelFormat{Name: "Gray8", ID: 1000010, ColorFamily: ColorFamilyGray,
		BitsPerSample: 8, BytesPerSample: 1, NumPlanes: 1}
	FormatGray16 = PixelFormat{Name: "Gray16", ID: 1000011, ColorFamily: ColorFamilyGray,
		BitsPerSample: 16, BytesPerSample: 2, NumPlanes: 1}
	FormatYUV420P8 = PixelFormat{Name: "YUV420P8", ID: 3000010, ColorFamily: ColorFamilyYUV,
		BitsPerSample: 8, BytesPerSample: 1, NumPlanes: 3, SubSamplingW: 1, SubSamplingH: 1}
	FormatYUV422P8 = PixelFormat{Name: "YUV422P8", ID: 3000011, ColorFamily: ColorFamilyYUV,
		BitsPerSample: 8, BytesPerSample: 1, NumPlanes: 3, SubSamplingW: 1}
	FormatYUV444P8 = PixelFormat{Name: "YUV444P8", ID: 3000012, ColorFamily: ColorFamilyYUV,
		BitsPerSample: 8, BytesPerSample: 1, NumPlanes: 3}
	FormatYUV420P10 = PixelFormat{Name: "YUV420P10", ID: 3000019, ColorFamily: ColorFamilyYUV,
		BitsPerSample: 10, BytesPerSample: 2, NumPlanes: 3, SubSamplingW: 1, SubSamplingH: 1}
	FormatRGB24 = PixelFormat{Name: "RGB24", ID: 2000010, ColorFamily: ColorFamilyRGB,
		BitsPerSample: 8, BytesPerSample: 1, NumPlanes: 3}
)
