package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(env)
			if err != nil {
				t.Fatalf("NewLogger(%q): %v", env, err)
			}
			_ = l.Sync()
		})
	}
	if _, err := NewLogger("staging"); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn must be enabled")
	}

	if _, err := NewLogger("local", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestContextLogger(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext must never return nil")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core).With(zap.String("request_id", "r-1")))
	FromContext(ctx).Info("[SEARCH] done")

	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["request_id"] != "r-1" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}
