//go:build !ios && !android && (amd64 || arm64)

package vsapi

import "unsafe"

// ColorFamily is the VapourSynth VSColorFamily.
type ColorFamily int32

const (
	ColorFamilyGray   ColorFamily = 1000000
	ColorFamilyRGB    ColorFamily = 2000000
	ColorFamilyYUV    ColorFamily = 3000000
	ColorFamilyYCoCg  ColorFamily = 4000000
	ColorFamilyCompat ColorFamily = 9000000
)

// SampleType is the VapourSynth VSSampleType.
type SampleType int32

const (
	SampleTypeInteger SampleType = 0
	SampleTypeFloat   SampleType = 1
)

// Format mirrors VSFormat.
type Format struct {
	Name           string
	ID             int32
	ColorFamily    ColorFamily
	SampleType     SampleType
	BitsPerSample  int32
	BytesPerSample int32
	SubSamplingW   int32
	SubSamplingH   int32
	NumPlanes      int32
}

// VideoInfo mirrors VSVideoInfo. Format is nil for clips whose format varies
// between frames.
type VideoInfo struct {
	Format    *Format
	FPSNum    int64
	FPSDen    int64
	Width     int32
	Height    int32
	NumFrames int32
	Flags     int32
}

// IsConstantFormat reports whether format and dimensions are fixed for the
// whole clip (VapourSynth's isConstantFormat).
func (vi VideoInfo) IsConstantFormat() bool {
	return vi.Format != nil && vi.Width > 0 && vi.Height > 0
}

// VSFormat field offsets (API 3). name is char[32].
const (
	formatNameSize          = 32
	offsetFormatID          = 32
	offsetFormatColorFamily = 36
	offsetFormatSampleType  = 40
	offsetFormatBits        = 44
	offsetFormatBytes       = 48
	offsetFormatSubW        = 52
	offsetFormatSubH        = 56
	offsetFormatNumPlanes   = 60
)

// VSVideoInfo field offsets (API 3, 64-bit).
const (
	offsetVIFormat    = 0
	offsetVIFPSNum    = 8
	offsetVIFPSDen    = 16
	offsetVIWidth     = 24
	offsetVIHeight    = 28
	offsetVINumFrames = 32
	offsetVIFlags     = 36
)

func readInt32(p unsafe.Pointer, off uintptr) int32 {
	return *(*int32)(unsafe.Add(p, off))
}

func readInt64(p unsafe.Pointer, off uintptr) int64 {
	return *(*int64)(unsafe.Add(p, off))
}

func decodeFormat(p unsafe.Pointer) *Format {
	if p == nil {
		return nil
	}
	name := unsafe.Slice((*byte)(p), formatNameSize)
	return &Format{
		Name:           cString(name),
		ID:             readInt32(p, offsetFormatID),
		ColorFamily:    ColorFamily(readInt32(p, offsetFormatColorFamily)),
		SampleType:     SampleType(readInt32(p, offsetFormatSampleType)),
		BitsPerSample:  readInt32(p, offsetFormatBits),
		BytesPerSample: readInt32(p, offsetFormatBytes),
		SubSamplingW:   readInt32(p, offsetFormatSubW),
		SubSamplingH:   readInt32(p, offsetFormatSubH),
		NumPlanes:      readInt32(p, offsetFormatNumPlanes),
	}
}

func decodeVideoInfo(p unsafe.Pointer) VideoInfo {
	if p == nil {
		return VideoInfo{}
	}
	return VideoInfo{
		Format:    decodeFormat(*(*unsafe.Pointer)(unsafe.Add(p, offsetVIFormat))),
		FPSNum:    readInt64(p, offsetVIFPSNum),
		FPSDen:    readInt64(p, offsetVIFPSDen),
		Width:     readInt32(p, offsetVIWidth),
		Height:    readInt32(p, offsetVIHeight),
		NumFrames: readInt32(p, offsetVINumFrames),
		Flags:     readInt32(p, offsetVIFlags),
	}
}
