package obs

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLoggerSwapsSharedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	Logger().Info("hello", zap.String("k", "v"))

	if logs.FilterMessage("hello").Len() != 1 {
		t.Fatalf("expected one entry, got %d", logs.Len())
	}
	if logs.All()[0].ContextMap()["k"] != "v" {
		t.Fatalf("missing field: %v", logs.All()[0].ContextMap())
	}
}

func TestNewLoggerLevels(t *testing.T) {
	l, err := NewLogger("debug")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level enabled")
	}
	if _, err := NewLogger("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
