package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
}

func TestNew_AppliesLevel(t *testing.T) {
	l := New(Config{Env: "production", Level: "error"})
	assert.Equal(t, zerolog.ErrorLevel, l.Zerolog().GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, l.Component("leads").GetLevel())
}

func TestNew_ServiceYComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "prospectos-worker", Out: &buf})
	c := l.Component("sweep")
	c.Info().Msg("barrido completado")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "prospectos-worker", line["service"])
	assert.Equal(t, "sweep", line["component"])
	assert.Equal(t, "barrido completado", line["message"])
}
