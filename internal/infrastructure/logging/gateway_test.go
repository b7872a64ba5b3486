package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiinsights.blog/cli/internal/application/ports"
)

func TestHCLogGateway_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	gateway := NewHCLogGateway("insights", &buf, ports.LoggingConfig{Level: ports.LogLevelWarn})

	gateway.Log(ports.LogLevelDebug, "hidden debug", nil)
	gateway.Log(ports.LogLevelInfo, "hidden info", nil)
	gateway.Log(ports.LogLevelWarn, "visible warning", map[string]interface{}{"attempts_left": 1})
	gateway.Log(ports.LogLevelError, "API call failed", map[string]interface{}{"status": 404, "origin": "server"})

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "[WARN]  insights: visible warning: attempts_left=1")
	assert.Contains(t, output, "[ERROR] insights: API call failed: origin=server status=404")
}

func TestHCLogGateway_SetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	gateway := NewHCLogGateway("insights", &buf, ports.LoggingConfig{Level: ports.LogLevelError})

	gateway.Log(ports.LogLevelDebug, "before", nil)
	gateway.SetLogLevel(ports.LogLevelDebug)
	gateway.Log(ports.LogLevelDebug, "after", nil)

	assert.Equal(t, ports.LogLevelDebug, gateway.GetLogLevel())
	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestHCLogGateway_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	gateway := NewHCLogGateway("insights", &buf, ports.LoggingConfig{Level: ports.LogLevelInfo, JSON: true})

	gateway.LogError(errors.New("connection refused"), "Tracking failed", map[string]interface{}{"article_id": "42"})

	line := strings.TrimSpace(buf.String())
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "error", entry["@level"])
	assert.Equal(t, "Tracking failed", entry["@message"])
	assert.Equal(t, "insights", entry["@module"])
	assert.Equal(t, "42", entry["article_id"])
	assert.Equal(t, "connection refused", entry["error"])
}

func TestHCLogGateway_ConfigureLogging(t *testing.T) {
	var buf bytes.Buffer
	gateway := NewHCLogGateway("insights", &buf, ports.LoggingConfig{Level: ports.LogLevelInfo})

	assert.Error(t, gateway.ConfigureLogging(nil))
	assert.Error(t, gateway.ConfigureLogging(&ports.LoggingConfig{Level: "verbose"}))

	require.NoError(t, gateway.ConfigureLogging(&ports.LoggingConfig{Level: ports.LogLevelDebug, JSON: true}))
	gateway.Log(ports.LogLevelDebug, "now json", nil)

	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestNewHCLogGateway_UnknownLevelFallsBackToWarn(t *testing.T) {
	gateway := NewHCLogGateway("insights", &bytes.Buffer{}, ports.LoggingConfig{Level: "chatty"})
	assert.Equal(t, ports.LogLevelWarn, gateway.GetLogLevel())
}
