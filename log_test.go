//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"testing"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMessageType_Level(t *testing.T) {
	tests := []struct {
		typ   MessageType
		level zapcore.Level
		name  string
	}{
		{MessageDebug, zapcore.DebugLevel, "debug"},
		{MessageWarning, zapcore.WarnLevel, "warning"},
		{MessageCritical, zapcore.ErrorLevel, "critical"},
		{MessageFatal, zapcore.ErrorLevel, "fatal"},
	}
	for _, tt := range tests {
		if got := tt.typ.Level(); got != tt.level {
			t.Errorf("%s.Level() = %v, want %v", tt.name, got, tt.level)
		}
		if got := tt.typ.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestZapMessageHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := ZapMessageHandler(zap.New(core))

	h(MessageDebug, "filtered out")
	h(MessageWarning, "clip has no frame rate")
	h(MessageFatal, "core is going down")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel || entries[0].Message != "clip has no frame rate" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("fatal message logged at %v", entries[1].Level)
	}
	if got := entries[1].ContextMap()["source"]; got != "vapoursynth" {
		t.Errorf("source = %v", got)
	}
}

func TestGoString(t *testing.T) {
	b := []byte("hello\x00world")
	if got := goString(&b[0]); got != "hello" {
		t.Errorf("goString = %q", got)
	}
	if got := goString(nil); got != "" {
		t.Errorf("goString(nil) = %q", got)
	}
}

func TestMessageTrampoline(t *testing.T) {
	var gotType MessageType
	var gotMsg string
	id := messageHandlers.Register(func(typ MessageType, msg string) {
		gotType, gotMsg = typ, msg
	})
	defer messageHandlers.Unregister(id)

	msg := []byte("out of memory\x00")
	messageTrampoline(purego.CDecl{}, int32(MessageCritical), &msg[0], id)
	if gotType != MessageCritical || gotMsg != "out of memory" {
		t.Errorf("handler got (%v, %q)", gotType, gotMsg)
	}

	// Unknown user data is ignored.
	messageTrampoline(purego.CDecl{}, 0, &msg[0], id+1000)
}
