//go:build !ios && !android && (amd64 || arm64)

package vsgo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/obinnaokechukwu/vsgo"
)

func TestError_KindsAreDisjoint(t *testing.T) {
	sentinels := []error{
		vsgo.ErrScriptEvaluation,
		vsgo.ErrNoOutput,
		vsgo.ErrUnsupportedClip,
		vsgo.ErrFrameFetch,
	}
	kinds := []vsgo.ErrorKind{
		vsgo.KindScriptEvaluation,
		vsgo.KindNoOutput,
		vsgo.KindUnsupportedClip,
		vsgo.KindFrameFetch,
	}
	for i, kind := range kinds {
		err := &vsgo.Error{Kind: kind, Message: "x"}
		for j, s := range sentinels {
			assert.Equal(t, i == j, errors.Is(err, s), "kind %s vs %v", kind, s)
		}
	}
}

func TestError_WrapsCause(t *testing.T) {
	cause := &vsgo.DiagnosticError{Message: "boom"}
	err := &vsgo.Error{Kind: vsgo.KindFrameFetch, Frame: 7, Message: "error getting frame 7: boom", Err: cause}

	assert.Equal(t, "vsgo: error getting frame 7: boom", err.Error())
	var diag *vsgo.DiagnosticError
	assert.True(t, errors.As(err, &diag))
	assert.Equal(t, "boom", diag.Message)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "ErrorKind(99)", vsgo.ErrorKind(99).String())
	assert.NotEqual(t, vsgo.KindNoOutput.String(), vsgo.KindFrameFetch.String())
}
