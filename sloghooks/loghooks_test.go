package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestHooks(buf *bytes.Buffer, opts Options) *Hooks {
	l := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(l, opts)
}

func TestLoaderFailedRedactsKeyByDefault(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHooks(&buf, Options{})

	h.LoaderFailed("user/profile/1", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "user/profile/1") {
		t.Fatalf("expected key to be redacted, got log line: %s", out)
	}
	if !strings.Contains(out, "loader_failed") {
		t.Fatalf("expected loader_failed event, got: %s", out)
	}
}

func TestLoaderFailedSampling(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHooks(&buf, Options{LoaderFailedEvery: 3})

	for i := 0; i < 2; i++ {
		h.LoaderFailed("k", errors.New("e"))
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no log lines before the sampling threshold, got: %s", buf.String())
	}

	h.LoaderFailed("k", errors.New("e"))
	if buf.Len() == 0 {
		t.Fatalf("expected a log line on the 3rd sampled call")
	}
}

func TestStoreUnavailableAlwaysLogs(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHooks(&buf, Options{})

	h.StoreUnavailable("save", "k1", errors.New("conn refused"))
	if !strings.Contains(buf.String(), "store_unavailable") {
		t.Fatalf("expected store_unavailable to be logged unconditionally")
	}
}

func TestCustomRedactor(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHooks(&buf, Options{Redact: func(k string) string { return "REDACTED" }})

	h.InvalidateFailed("secret/key", errors.New("e"))
	if !strings.Contains(buf.String(), "REDACTED") {
		t.Fatalf("expected custom redactor to be used, got: %s", buf.String())
	}
}
