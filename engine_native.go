//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"errors"

	"github.com/obinnaokechukwu/vsgo/vsapi"
	"github.com/obinnaokechukwu/vsgo/vsscript"
)

// nativeEngine implements Engine on top of the VSScript library.
type nativeEngine struct{}

// NativeEngine returns the VapourSynth engine, initializing it if needed.
func NativeEngine() (Engine, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	return nativeEngine{}, nil
}

func (nativeEngine) Evaluate(script []byte, path string) (ScriptRef, error) {
	s, err := vsscript.EvaluateScript(string(script), path, vsscript.FlagSetWorkingDir)
	if err != nil {
		var evalErr *vsscript.EvalError
		if errors.As(err, &evalErr) {
			return nil, &DiagnosticError{Message: evalErr.Message}
		}
		return nil, err
	}
	return s, nil
}

func (nativeEngine) OutputNode(s ScriptRef, index int) NodeRef {
	return vsscript.GetOutput(s, index)
}

func (nativeEngine) VideoInfo(n NodeRef) VideoInfo {
	vi := vsapi.GetVideoInfo(n)
	info := VideoInfo{
		FPSNum:    vi.FPSNum,
		FPSDen:    vi.FPSDen,
		Width:     int(vi.Width),
		Height:    int(vi.Height),
		NumFrames: int(vi.NumFrames),
	}
	if vi.Format != nil {
		info.Format = &PixelFormat{
			Name:           vi.Format.Name,
			ID:             int(vi.Format.ID),
			ColorFamily:    colorFamilyFromVS(vi.Format.ColorFamily),
			SampleType:     SampleType(vi.Format.SampleType),
			BitsPerSample:  int(vi.Format.BitsPerSample),
			BytesPerSample: int(vi.Format.BytesPerSample),
			NumPlanes:      int(vi.Format.NumPlanes),
			SubSamplingW:   int(vi.Format.SubSamplingW),
			SubSamplingH:   int(vi.Format.SubSamplingH),
		}
	}
	return info
}

func colorFamilyFromVS(cf vsapi.ColorFamily) ColorFamily {
	switch cf {
	case vsapi.ColorFamilyGray:
		return ColorFamilyGray
	case vsapi.ColorFamilyRGB:
		return ColorFamilyRGB
	case vsapi.ColorFamilyYUV:
		return ColorFamilyYUV
	case vsapi.ColorFamilyYCoCg:
		return ColorFamilyYCoCg
	case vsapi.ColorFamilyCompat:
		return ColorFamilyCompat
	default:
		return ColorFamilyUndefined
	}
}

func (nativeEngine) GetFrame(n NodeRef, index int) (FrameRef, error) {
	f, err := vsapi.GetFrame(index, n)
	if err != nil {
		var frameErr *vsapi.FrameError
		if errors.As(err, &frameErr) {
			return nil, &DiagnosticError{Message: frameErr.Message}
		}
		return nil, err
	}
	return f, nil
}

func (nativeEngine) PlaneStride(f FrameRef, p int) int { return vsapi.GetStride(f, p) }
func (nativeEngine) PlaneWidth(f FrameRef, p int) int  { return vsapi.GetFrameWidth(f, p) }
func (nativeEngine) PlaneHeight(f FrameRef, p int) int { return vsapi.GetFrameHeight(f, p) }
func (nativeEngine) PlaneData(f FrameRef, p int) []byte {
	return vsapi.PlaneData(f, p)
}

func (nativeEngine) FreeFrame(f FrameRef) { vsapi.FreeFrame(&f) }
func (nativeEngine) FreeNode(n NodeRef)   { vsapi.FreeNode(&n) }
func (nativeEngine) FreeScript(s ScriptRef) {
	vsscript.FreeScript(&s)
}
