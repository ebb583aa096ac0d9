package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reoring/valirator/internal/logger"
)

func TestNew_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelInfo))
	log.Debug("hidden")
	log.Info("shown", slog.String("k", "v"))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "k=v")
}

func TestNew_JSONWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithFormat(logger.FormatJSON),
		logger.WithAttr(slog.String("app", "valirator")),
	)
	log.Warn("careful")
	assert.Contains(t, buf.String(), `"msg":"careful"`)
	assert.Contains(t, buf.String(), `"app":"valirator"`)
}

func TestWithFormat_PanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
}

func TestWithOutput_IgnoresNil(t *testing.T) {
	assert.NotPanics(t, func() { logger.New(logger.WithOutput(nil)).Warn("x") })
}
