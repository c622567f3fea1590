package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskware/kioskit/pkg/logger"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Debug("hidden")
	assert.Empty(t, buf.String(), "debug is below the default level")

	log.Info("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNew_JSONWithComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithFormat(logger.FormatJSON),
		logger.WithComponent("orchestrator"),
	)
	log.Info("tick", logger.Channel("navigation"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "orchestrator", record["component"])
	assert.Equal(t, "navigation", record["channel"])
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelDebug))
	log.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(assert.AnError).Key)
	assert.Equal(t, "page_id", logger.Page("home").Key)
	assert.Equal(t, "view_id", logger.View("menu").Key)
	assert.Equal(t, "event", logger.Event("page-changed").Key)
	assert.Equal(t, "item_id", logger.Item("abc").Key)
}
