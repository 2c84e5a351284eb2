package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Runtime modes.
const (
	RuntimeLambda = "lambda"
	RuntimeHTTP   = "http"
)

// Config holds application configuration values.
type Config struct {
	Env     string `validate:"required,oneof=dev prod"`
	Runtime string `validate:"required,oneof=lambda http"`
	HTTP    struct {
		Addr string `validate:"required"`
	}
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
	Journal struct {
		Driver        string        `validate:"required,oneof=none sqlite postgres"`
		DSN           string        `validate:"required_unless=Driver none"`
		Retention     time.Duration `validate:"gte=0"`
		PruneSchedule string
	}
}

var validate = validator.New()

// Load reads configuration from environment variables and an optional .env
// file. The runtime defaults to lambda inside the Lambda execution
// environment and to http elsewhere.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	c.Env = strings.ToLower(getenv("ENV", "prod"))
	c.Runtime = strings.ToLower(getenv("RUNTIME", defaultRuntime()))
	c.HTTP.Addr = getenv("HTTP_ADDR", ":8080")
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "info"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "debug"))
	c.Log.File = os.Getenv("LOG_FILE")
	c.Journal.Driver = strings.ToLower(getenv("JOURNAL_DRIVER", "none"))
	c.Journal.DSN = os.Getenv("JOURNAL_DSN")
	c.Journal.PruneSchedule = getenv("JOURNAL_PRUNE_SCHEDULE", "@hourly")

	retention, err := time.ParseDuration(getenv("JOURNAL_RETENTION", "168h"))
	if err != nil {
		return Config{}, errors.New("JOURNAL_RETENTION must be a duration such as 168h")
	}
	c.Journal.Retention = retention

	if err := validate.Struct(c); err != nil {
		return Config{}, err
	}
	if c.Runtime == RuntimeLambda && c.Log.File != "" && !strings.HasPrefix(c.Log.File, "/tmp/") {
		return Config{}, errors.New("LOG_FILE must be under /tmp/ in the lambda runtime")
	}
	return c, nil
}

func defaultRuntime() string {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		return RuntimeLambda
	}
	return RuntimeHTTP
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
