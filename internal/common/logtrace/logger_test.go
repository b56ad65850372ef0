package logtrace

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestZeroLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(zerolog.New(&buf))

	l.Errorf("request failed: %s", "timeout")
	line := buf.Bytes()
	assert.Equal(t, "error", gjson.GetBytes(line, "level").String())
	assert.Equal(t, "request failed: timeout", gjson.GetBytes(line, "message").String())

	buf.Reset()
	l.Infof("Redirect to: %s", "https://example.com")
	assert.Equal(t, "info", gjson.GetBytes(buf.Bytes(), "level").String())
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Errorf("ignored %d", 1)
		Nop().Infof("ignored")
	})
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestIdFromContext(context.Background()))

	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestIdFromContext(ctx))
}
