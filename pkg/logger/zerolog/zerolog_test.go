package zerolog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/raykavin/stockcast/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", JSON: true, Output: buf})
	require.NoError(t, err)

	log.WithField("time_step", 100).WithError(errors.New("boom")).Info("window built")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "window built", line["message"])
	assert.Equal(t, float64(100), line["time_step"])
	assert.Equal(t, "boom", line["error"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestAdapter_SetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", JSON: true, Output: buf})
	require.NoError(t, err)

	log.SetLevel(logger.WarnLevel)
	assert.Equal(t, logger.WarnLevel, log.GetLevel())

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")

	log.SetLevel(logger.InfoLevel)
}
