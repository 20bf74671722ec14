//go:build !ios && !android && (amd64 || arm64)

package vsapi

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/obinnaokechukwu/vsgo/internal/bindings"
)

// cFormat and cVideoInfo reproduce the API 3 C layouts so the decoders can be
// checked without a VapourSynth install.
type cFormat struct {
	name          [32]byte
	id            int32
	colorFamily   int32
	sampleType    int32
	bitsPerSample int32
	bytesPerSamp  int32
	subSamplingW  int32
	subSamplingH  int32
	numPlanes     int32
}

type cVideoInfo struct {
	format    *cFormat
	fpsNum    int64
	fpsDen    int64
	width     int32
	height    int32
	numFrames int32
	flags     int32
}

func TestDecodeVideoInfo(t *testing.T) {
	f := cFormat{
		id:            3000010,
		colorFamily:   int32(ColorFamilyYUV),
		sampleType:    int32(SampleTypeInteger),
		bitsPerSample: 8,
		bytesPerSamp:  1,
		subSamplingW:  1,
		subSamplingH:  1,
		numPlanes:     3,
	}
	copy(f.name[:], "YUV420P8")

	vi := cVideoInfo{format: &f, fpsNum: 30000, fpsDen: 1001, width: 1920, height: 1080, numFrames: 240}

	got := decodeVideoInfo(unsafe.Pointer(&vi))
	if got.Format == nil {
		t.Fatal("Format should be decoded")
	}
	want := Format{
		Name:           "YUV420P8",
		ID:             3000010,
		ColorFamily:    ColorFamilyYUV,
		SampleType:     SampleTypeInteger,
		BitsPerSample:  8,
		BytesPerSample: 1,
		SubSamplingW:   1,
		SubSamplingH:   1,
		NumPlanes:      3,
	}
	if *got.Format != want {
		t.Errorf("Format = %+v, want %+v", *got.Format, want)
	}
	if got.FPSNum != 30000 || got.FPSDen != 1001 {
		t.Errorf("fps = %d/%d, want 30000/1001", got.FPSNum, got.FPSDen)
	}
	if got.Width != 1920 || got.Height != 1080 || got.NumFrames != 240 {
		t.Errorf("dims = %dx%d (%d frames)", got.Width, got.Height, got.NumFrames)
	}
	if !got.IsConstantFormat() {
		t.Error("IsConstantFormat should be true")
	}
}

func TestDecodeVideoInfoVariableFormat(t *testing.T) {
	vi := cVideoInfo{fpsNum: 24, fpsDen: 1, numFrames: 10}
	got := decodeVideoInfo(unsafe.Pointer(&vi))
	if got.Format != nil {
		t.Error("Format should be nil for variable-format clips")
	}
	if got.IsConstantFormat() {
		t.Error("IsConstantFormat should be false")
	}
	if decodeVideoInfo(nil) != (VideoInfo{}) {
		t.Error("nil video info should decode to zero value")
	}
}

func TestSlot(t *testing.T) {
	var table [80]uintptr
	table[slotGetFrame] = 0xdead
	table[slotRemoveMessageHandler] = 0xbeef

	if got := slot(unsafe.Pointer(&table[0]), slotGetFrame); got != 0xdead {
		t.Errorf("slot(getFrame) = %#x, want 0xdead", got)
	}
	if got := slot(unsafe.Pointer(&table[0]), slotRemoveMessageHandler); got != 0xbeef {
		t.Errorf("slot(removeMessageHandler) = %#x, want 0xbeef", got)
	}
}

func TestCString(t *testing.T) {
	buf := make([]byte, 16)
	copy(buf, "frame failed")
	if got := cString(buf); got != "frame failed" {
		t.Errorf("cString = %q", got)
	}
	if got := cString([]byte("no terminator")); got != "no terminator" {
		t.Errorf("cString = %q", got)
	}
}

func TestUnregisteredCalls(t *testing.T) {
	if IsRegistered() {
		t.Skip("VSAPI already registered in this process")
	}
	if _, err := GetFrame(0, nil); !errors.Is(err, bindings.ErrNotLoaded) {
		t.Errorf("GetFrame error = %v, want ErrNotLoaded", err)
	}
	if err := Register(nil, 0); !errors.Is(err, bindings.ErrNotLoaded) {
		t.Errorf("Register(nil) error = %v, want ErrNotLoaded", err)
	}

	// Free helpers must tolerate nil handles.
	var f Frame
	FreeFrame(&f)
	FreeFrame(nil)
	var n Node
	FreeNode(&n)

	if PlaneData(nil, 0) != nil {
		t.Error("PlaneData(nil) should be nil")
	}
}
