//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/vsgo/internal/handles"
	"github.com/obinnaokechukwu/vsgo/vsapi"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MessageType is the severity of a VapourSynth core message.
type MessageType int32

// Message types matching VapourSynth's mt* values.
const (
	MessageDebug    MessageType = 0
	MessageWarning  MessageType = 1
	MessageCritical MessageType = 2
	MessageFatal    MessageType = 3 // the core aborts after delivering it
)

// String returns the string representation of the message type.
func (t MessageType) String() string {
	switch t {
	case MessageDebug:
		return "debug"
	case MessageWarning:
		return "warning"
	case MessageCritical:
		return "critical"
	case MessageFatal:
		return "fatal"
	default:
		return fmt.Sprintf("MessageType(%d)", int32(t))
	}
}

// Level maps the message type to a zap level. Fatal messages map to
// ErrorLevel so that logging them never exits the process.
func (t MessageType) Level() zapcore.Level {
	switch t {
	case MessageDebug:
		return zapcore.DebugLevel
	case MessageWarning:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// MessageHandler is called for each core message, possibly from engine
// threads.
type MessageHandler func(typ MessageType, message string)

var (
	messageMu       sync.Mutex
	messageHandlers handles.Table[MessageHandler]
	messageHandle   uintptr
	messageID       = -1
	messageCB       uintptr
)

// SetMessageHandler routes VapourSynth core messages to h, replacing any
// previous handler. Pass nil to remove it. It requires API 3.6 or newer.
func SetMessageHandler(h MessageHandler) error {
	if err := Init(); err != nil {
		return err
	}

	messageMu.Lock()
	defer messageMu.Unlock()

	if messageID >= 0 {
		if err := vsapi.RemoveMessageHandler(messageID); err != nil {
			return err
		}
		messageHandlers.Unregister(messageHandle)
		messageID, messageHandle = -1, 0
	}
	if h == nil {
		return nil
	}

	if messageCB == 0 {
		messageCB = purego.NewCallback(messageTrampoline)
	}
	handle := messageHandlers.Register(h)
	id, err := vsapi.AddMessageHandler(messageCB, 0, handle)
	if err != nil {
		messageHandlers.Unregister(handle)
		return err
	}
	messageID, messageHandle = id, handle
	return nil
}

// ZapMessageHandler returns a MessageHandler writing to logger.
func ZapMessageHandler(logger *zap.Logger) MessageHandler {
	logger = logger.With(zap.String("source", "vapoursynth"))
	return func(typ MessageType, message string) {
		if ce := logger.Check(typ.Level(), message); ce != nil {
			ce.Write(zap.Stringer("type", typ))
		}
	}
}

// messageTrampoline is called by the core.
// Signature: void (*)(int msgType, const char *msg, void *userData)
func messageTrampoline(_ purego.CDecl, msgType int32, msg *byte, userData uintptr) {
	h, ok := messageHandlers.Lookup(userData)
	if !ok {
		return
	}
	h(MessageType(msgType), goString(msg))
}

// goString copies a NUL-terminated C string, stopping at 64 KiB.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	const limit = 64 << 10
	n := 0
	for n < limit && *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
