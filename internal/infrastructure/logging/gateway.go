package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"

	"aiinsights.blog/cli/internal/application/ports"
)

// HCLogGateway adapts an hclog.Logger to the LoggingGateway interface
type HCLogGateway struct {
	mu     sync.RWMutex
	name   string
	output io.Writer
	level  ports.LogLevel
	json   bool
	logger hclog.Logger
}

// NewHCLogGateway creates a gateway writing to output (stderr when nil)
func NewHCLogGateway(name string, output io.Writer, config ports.LoggingConfig) *HCLogGateway {
	if output == nil {
		output = os.Stderr
	}
	if !config.Level.Valid() {
		config.Level = ports.LogLevelWarn
	}

	g := &HCLogGateway{name: name, output: output}
	g.apply(config)
	return g
}

func (g *HCLogGateway) apply(config ports.LoggingConfig) {
	g.level = config.Level
	g.json = config.JSON
	g.logger = hclog.New(&hclog.LoggerOptions{
		Name:       g.name,
		Level:      toHCLevel(config.Level),
		Output:     g.output,
		JSONFormat: config.JSON,
	})
}

func (g *HCLogGateway) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	g.mu.RLock()
	logger := g.logger
	g.mu.RUnlock()

	logger.Log(toHCLevel(level), message, flatten(fields)...)
}

func (g *HCLogGateway) LogError(err error, message string, fields map[string]interface{}) {
	g.mu.RLock()
	logger := g.logger
	g.mu.RUnlock()

	args := flatten(fields)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	logger.Error(message, args...)
}

func (g *HCLogGateway) SetLogLevel(level ports.LogLevel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.level = level
	g.logger.SetLevel(toHCLevel(level))
}

func (g *HCLogGateway) GetLogLevel() ports.LogLevel {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.level
}

// ConfigureLogging rebuilds the logger when the output format changes
func (g *HCLogGateway) ConfigureLogging(config *ports.LoggingConfig) error {
	if config == nil {
		return fmt.Errorf("logging config cannot be nil")
	}
	if !config.Level.Valid() {
		return fmt.Errorf("unknown log level %q", config.Level)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.apply(*config)
	return nil
}

func toHCLevel(level ports.LogLevel) hclog.Level {
	switch level {
	case ports.LogLevelDebug:
		return hclog.Debug
	case ports.LogLevelWarn:
		return hclog.Warn
	case ports.LogLevelError:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// flatten turns fields into sorted key/value pairs so output is stable
func flatten(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}

var _ ports.LoggingGateway = (*HCLogGateway)(nil)
