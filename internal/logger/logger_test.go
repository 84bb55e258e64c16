package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	Set(zerolog.New(&buf))
	t.Cleanup(func() { Set(zerolog.Nop()) })

	l := WithRequestID("req-1")
	l.Info().Msg("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestNopByDefault(t *testing.T) {
	assert.NotPanics(t, func() {
		Get().Info().Msg("discarded")
	})
}
