//go:build !ios && !android && (amd64 || arm64)

package vsgo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/vsgo"
	"github.com/obinnaokechukwu/vsgo/vsgotest"
)

func assertNoLeaks(t *testing.T, e *vsgotest.Engine) {
	t.Helper()
	scripts, nodes, frames := e.Live()
	assert.Zero(t, scripts, "live scripts")
	assert.Zero(t, nodes, "live nodes")
	assert.Zero(t, frames, "live frames")
	assert.Empty(t, e.DoubleFrees())
}

func TestOpenClip_Ready(t *testing.T) {
	e := vsgotest.NewEngine(vsgotest.Config{Info: vsgotest.Clip(vsgo.FormatYUV420P8, 64, 48, 10)})

	clip, err := vsgo.OpenClip(e, []byte("clip = core.std.BlankClip()"), "/tmp/a.vpy")
	require.NoError(t, err)
	assert.Equal(t, vsgo.ClipReady, clip.State())
	assert.Equal(t, "/tmp/a.vpy", clip.Path())

	info := clip.Info()
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 48, info.Height)
	assert.Equal(t, 10, info.NumFrames)
	assert.Equal(t, vsgo.Rational{Num: 30000, Den: 1001}, info.FPS)
	assert.Equal(t, 4608, info.FrameSize)
	assert.Equal(t, 4608, info.PackedSize)
	assert.Equal(t, "YUV420P8", info.Format.Name)

	scripts, nodes, _ := e.Live()
	assert.Equal(t, 1, scripts)
	assert.Equal(t, 1, nodes)

	require.NoError(t, clip.Close())
	assert.Equal(t, vsgo.ClipClosed, clip.State())
	require.NoError(t, clip.Close())
	assertNoLeaks(t, e)
}

func TestOpenClip_ScriptTextVerbatim(t *testing.T) {
	e := vsgotest.NewEngine(vsgotest.Config{Info: vsgotest.Clip(vsgo.FormatYUV420P8, 16, 16, 1)})
	script := []byte("import vapoursynth as vs\x00\nclip.set_output()")

	clip, err := vsgo.OpenClip(e, script, "x.vpy")
	require.NoError(t, err)
	defer clip.Close()

	require.Len(t, e.Evaluated(), 1)
	assert.Equal(t, script, e.Evaluated()[0])
}

func TestOpenClip_EvaluationError(t *testing.T) {
	e := vsgotest.NewEngine(vsgotest.Config{EvalError: "Python exception: name 'foo' is not defined"})

	clip, err := vsgo.OpenClip(e, []byte("foo"), "bad.vpy")
	require.Error(t, err)
	assert.Nil(t, clip)
	assert.ErrorIs(t, err, vsgo.ErrScriptEvaluation)
	assert.NotErrorIs(t, err, vsgo.ErrFrameFetch)
	assert.Equal(t, "vsgo: evaluation failed for bad.vpy: Python exception: name 'foo' is not defined", err.Error())

	var vErr *vsgo.Error
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, vsgo.KindScriptEvaluation, vErr.Kind)
	assert.Equal(t, "bad.vpy", vErr.Path)

	assertNoLeaks(t, e)
}

func TestOpenClip_NoOutput(t *testing.T) {
	e := vsgotest.NewEngine(vsgotest.Config{NoOutput: true})

	_, err := vsgo.OpenClip(e, []byte("x = 1"), "empty.vpy")
	require.Error(t, err)
	assert.ErrorIs(t, err, vsgo.ErrNoOutput)
	assert.Equal(t, "vsgo: no output node produced", err.Error())

	scripts, _, _ := e.Released()
	assert.Equal(t, 1, scripts)
	assertNoLeaks(t, e)
}

func TestOpenClip_Unsupported(t *testing.T) {
	zeroFrames := vsgotest.Clip(vsgo.FormatYUV420P8, 64, 48, 0)
	variable := vsgotest.Clip(vsgo.FormatYUV420P8, 64, 48, 10)
	variable.Format = nil
	zeroWidth := vsgotest.Clip(vsgo.FormatYUV420P8, 0, 48, 10)
	zeroBytes := vsgotest.Clip(vsgo.PixelFormat{Name: "Empty", NumPlanes: 1}, 64, 48, 10)

	tests := []struct {
		name string
		info vsgo.VideoInfo
	}{
		{"zero frames", zeroFrames},
		{"variable format", variable},
		{"zero width", zeroWidth},
		{"zero frame size", zeroBytes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := vsgotest.NewEngine(vsgotest.Config{Info: tt.info})

			clip, err := vsgo.OpenClip(e, []byte("clip"), "u.vpy")
			require.Error(t, err)
			assert.Nil(t, clip)
			assert.ErrorIs(t, err, vsgo.ErrUnsupportedClip)
			assert.Equal(t, "vsgo: unsupported clip: non-constant format or zero length", err.Error())

			scripts, nodes, _ := e.Released()
			assert.Equal(t, 1, scripts)
			assert.Equal(t, 1, nodes)
			assertNoLeaks(t, e)
		})
	}
}

func TestClipState_String(t *testing.T) {
	assert.Equal(t, "ready", vsgo.ClipReady.String())
	assert.Equal(t, "node acquired", vsgo.ClipNodeAcquired.String())
	assert.Equal(t, "ClipState(42)", vsgo.ClipState(42).String())
}
