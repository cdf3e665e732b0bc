package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// devFallbackBaseURL is substituted when no base URL is configured and the
// environment is not dev. In dev a missing base URL is a hard error.
const devFallbackBaseURL = "http://localhost:5000/api"

// Config holds the complete client configuration, loadable from environment
// variables (VELORA_ prefix), flags, or YAML config files.
type Config struct {
	APIBaseURL string `usage:"Storefront API base URL (VELORA_API_BASE_URL)" flag:"api-base-url"`
	Env        string `default:"dev" usage:"Runtime environment: dev or prod"`
	HTTP       HTTPConfig
	Stripe     StripeConfig
	Storage    StorageConfig
	Probe      ProbeConfig
}

// HTTPConfig controls the outbound HTTP client.
type HTTPConfig struct {
	Timeout time.Duration `default:"10s" usage:"Per-request timeout"`
}

// StripeConfig holds the payment provider's client-side credentials.
type StripeConfig struct {
	PublishableKey string `usage:"Stripe publishable key" flag:"stripe-publishable-key"`
}

// StorageConfig selects where session and cart slots persist.
type StorageConfig struct {
	Backend string `default:"file" usage:"State backend: file, keyring, memory, none"`
	Path    string `default:"" usage:"State file path (defaults to ~/.velora/state.json)" flag:"state-path"`
}

// ProbeConfig controls the backend availability prober.
type ProbeConfig struct {
	Interval time.Duration `default:"30s" usage:"Availability probe interval"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and flags, then applies the base URL policy.
func LoadConfig(lg *zap.Logger) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "VELORA",
		Files:     []string{"velora.yaml", os.ExpandEnv("$HOME/.velora/config.yaml")},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.APIBaseURL == "" {
		if cfg.Env == "dev" {
			return nil, errors.New("API base URL is required: set VELORA_API_BASE_URL")
		}
		lg.Warn("API base URL not configured, falling back to localhost",
			zap.String("fallback", devFallbackBaseURL))
		cfg.APIBaseURL = devFallbackBaseURL
	}

	return &cfg, nil
}
