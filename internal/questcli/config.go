package questcli

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Config is read from the environment. Command-line flags override it.
type Config struct {
	LogLevel     zapcore.Level `env:"QUEST_LOG_LEVEL" envDefault:"warn"`
	OtelExporter string        `env:"QUEST_OTEL_EXPORTER" envDefault:"none"`
	ServiceName  string        `env:"QUEST_SERVICE_NAME" envDefault:"quest"`
	MaxRedirects int           `env:"QUEST_MAX_REDIRECTS" envDefault:"10"`
	Socket       string        `env:"QUEST_SOCKET"`
	Timeout      time.Duration `env:"QUEST_TIMEOUT" envDefault:"30s"`
}

// ParseConfig parses the environment into a Config.
func ParseConfig() (cfg Config, err error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to parse environment")
	}

	return cfg, nil
}
