package logger

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"
)

func newTestHandler(cfg Config) (*filteringHandler, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg.process()
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return newFilteringHandler(base, &cfg), &buf
}

func recordHere(msg, tag string) slog.Record {
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	r := slog.NewRecord(time.Now(), slog.LevelInfo, msg, pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	return r
}

func TestFilteringHandlerPackages(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"no filters", Config{}, true},
		{"package disabled", Config{DisabledPackages: []string{"LOGGER"}}, false},
		{"package not in allow list", Config{EnabledPackages: []string{"history"}}, false},
		{"package allowed", Config{EnabledPackages: []string{"logger"}}, true},
		{"file disabled", Config{DisabledFiles: []string{"handler_test.go"}}, false},
		{"disabled wins over enabled", Config{EnabledPackages: []string{"logger"}, DisabledPackages: []string{"logger"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, buf := newTestHandler(tt.cfg)
			if err := h.Handle(context.Background(), recordHere("hello", "")); err != nil {
				t.Fatalf("Handle: %v", err)
			}
			got := strings.Contains(buf.String(), "hello")
			if got != tt.want {
				t.Fatalf("logged = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestFilteringHandlerTags(t *testing.T) {
	h, buf := newTestHandler(Config{EnabledTags: []string{"history"}})

	_ = h.Handle(context.Background(), recordHere("untagged", ""))
	_ = h.Handle(context.Background(), recordHere("other", "scene"))
	_ = h.Handle(context.Background(), recordHere("kept", "History"))

	out := buf.String()
	if strings.Contains(out, "untagged") || strings.Contains(out, "other") {
		t.Fatalf("unexpected records passed the tag allow list: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("tagged record was dropped: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"err":     slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSliceToSetEmpty(t *testing.T) {
	if set := sliceToSet([]string{"", ""}); set != nil {
		t.Fatalf("expected nil set, got %v", set)
	}
}
