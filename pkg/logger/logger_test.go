package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Output: &buf})

	l.Info().Str("batch_id", "b-1").Msg("carga iniciada")
	l.Debug().Msg("no debe aparecer")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "carga iniciada", entry["message"])
	assert.Equal(t, "b-1", entry["batch_id"])
}

func TestChild_ConservaCampos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "debug", Output: &buf})
	child := l.Child(l.With().Str("stage", "Reading"))

	child.Debug().Msg("x")

	assert.Contains(t, buf.String(), `"stage":"Reading"`)
}
