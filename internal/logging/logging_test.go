package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// captureLogOutput redirects the default logger to a buffer for the
// duration of f.
func captureLogOutput(f func()) string {
	var buf bytes.Buffer
	oldLogger := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	f()
	defaultLogger = oldLogger
	return buf.String()
}

func TestLevelHelpers(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("dbg", "k", "v") }, `"level":"DEBUG"`},
		{"info", func() { Info("inf") }, `"level":"INFO"`},
		{"warn", func() { Warn("wrn") }, `"level":"WARN"`},
		{"error", func() { Error("err") }, `"level":"ERROR"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureLogOutput(tt.log)
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q missing %q", out, tt.want)
			}
		})
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc123")
	if got := GetRequestID(ctx); got != "abc123" {
		t.Errorf("GetRequestID = %q, want %q", got, "abc123")
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID on empty context = %q, want empty", got)
	}
}

func TestLoggerFromContext(t *testing.T) {
	out := captureLogOutput(func() {
		ctx := WithRequestID(context.Background(), "req-7")
		InfoContext(ctx, "hello")
	})
	if !strings.Contains(out, `"request_id":"req-7"`) {
		t.Errorf("output missing request_id: %q", out)
	}
}

func TestParseEvent(t *testing.T) {
	out := captureLogOutput(func() {
		ParseEvent("locus", 9, true, 42*time.Microsecond)
	})
	var rec map[string]any
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if rec["msg"] != "parse" {
		t.Errorf("msg = %v, want parse", rec["msg"])
	}
	if rec["kind"] != "locus" {
		t.Errorf("kind = %v, want locus", rec["kind"])
	}
	if rec["ok"] != true {
		t.Errorf("ok = %v, want true", rec["ok"])
	}
}

func TestGenomeImport(t *testing.T) {
	out := captureLogOutput(func() {
		GenomeImport("GRCh38", 25, "deadbeef")
	})
	if !strings.Contains(out, `"genome":"GRCh38"`) || !strings.Contains(out, `"fingerprint":"deadbeef"`) {
		t.Errorf("output missing fields: %q", out)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if seen == "" {
			t.Errorf("no request ID in handler context")
		}
		if got := rec.Header().Get("X-Request-ID"); got != seen {
			t.Errorf("response header %q != context id %q", got, seen)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-id")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen != "upstream-id" {
			t.Errorf("request ID = %q, want upstream-id", seen)
		}
	})
}

func TestRequestLogMiddleware(t *testing.T) {
	out := captureLogOutput(func() {
		handler := RequestLogMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/parse", nil))
	})
	if !strings.Contains(out, `"status_code":418`) {
		t.Errorf("output missing status code: %q", out)
	}
	if !strings.Contains(out, `"path":"/parse"`) {
		t.Errorf("output missing path: %q", out)
	}
}
