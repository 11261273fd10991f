package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	contextPkg "BlogPlatform/pkg/context"

	"github.com/sirupsen/logrus"
)

func TestErrorWithTraceIDTo(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	got := ErrorWithTraceIDTo(l, Fields{"request_id": "01HZX"}, "boom")
	if got != "01HZX" {
		t.Errorf("trace id = %q, want the request id", got)
	}
	if !strings.Contains(buf.String(), `"trace_id":"01HZX"`) {
		t.Errorf("log line %q has no trace_id", buf.String())
	}

	buf.Reset()
	got = ErrorWithTraceIDTo(l, Fields{"request_id": "unknown"}, "boom")
	if got == "" || got == "unknown" {
		t.Errorf("trace id = %q, want a generated id", got)
	}
}

func TestWithRequestID(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	ctx := contextPkg.WithRequestID(context.Background(), "abc")
	entry := WithRequestID(ctx)
	if entry.Data["request_id"] != "abc" {
		t.Errorf("request_id = %v, want abc", entry.Data["request_id"])
	}

	entry = WithRequestID(context.Background())
	if entry.Data["request_id"] != "unknown" {
		t.Errorf("request_id = %v, want unknown", entry.Data["request_id"])
	}
}
