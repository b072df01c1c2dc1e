package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognized by ApplyEnv.
const (
	EnvEndpoint     = "TAGCRAWL_ENDPOINT"
	EnvOutput       = "TAGCRAWL_OUTPUT"
	EnvProxy        = "TAGCRAWL_PROXY"
	EnvUserAgent    = "TAGCRAWL_USER_AGENT"
	EnvMinPostCount = "TAGCRAWL_MIN_POST_COUNT"
	EnvDelay        = "TAGCRAWL_DELAY"
)

// envPrefix selects the process environment variables that LoadEnv keeps.
const envPrefix = "TAGCRAWL_"

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// LoadEnv returns the TAGCRAWL_* settings from the dotenv file at path
// merged with the process environment. Process variables win.
// A missing dotenv file is not an error. The process environment is
// never modified.
func LoadEnv(path string) (map[string]string, error) {
	env := make(map[string]string)

	if path != "" {
		values, err := godotenv.Read(path)
		switch {
		case err == nil:
			for k, v := range values {
				if strings.HasPrefix(k, envPrefix) {
					env[k] = v
				}
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, envPrefix) {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv overrides c with the recognized variables present in env.
// Empty values are ignored.
func (c *Config) ApplyEnv(env map[string]string) error {
	if v := env[EnvEndpoint]; v != "" {
		c.Endpoint = v
	}
	if v := env[EnvOutput]; v != "" {
		c.Output = v
	}
	if v := env[EnvProxy]; v != "" {
		c.Proxy = v
	}
	if v := env[EnvUserAgent]; v != "" {
		c.UserAgent = v
	}
	if v := env[EnvMinPostCount]; v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvMinPostCount, v)
		}
		c.Filter.MinPostCount = n
	}
	if v := env[EnvDelay]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvDelay, v)
		}
		c.Delay = d
	}
	return nil
}
