package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("prod", &buf)

	l.Debug("hidden")
	l.Info("chat served", "session_id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "chat served", entry["msg"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_DevWritesDebugText(t *testing.T) {
	var buf bytes.Buffer
	l := New("dev", &buf)

	l.Debug("visible", "k", "v")
	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "k=v")
}

func TestContext(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	l := New("dev", &buf).With("request_id", "r-1")
	ctx := ToContext(context.Background(), l)

	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=r-1")
}
