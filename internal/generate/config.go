package generate

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"merngen/internal/errs"
	"merngen/internal/llm"
)

const (
	BackendGemini = "gemini"
	BackendProxy  = "proxy"

	DefaultRetries = 3
	DefaultBackoff = time.Second
)

// DefaultModels is the rotation used when none is configured. Attempt i uses
// Models[i % len(Models)].
var DefaultModels = []string{"gemini-3-flash-preview", "gemini-1.5-flash"}

// Config carries everything needed to build the generation backend.
type Config struct {
	Backend  string
	APIKey   string
	ProxyURL string

	Models  []string
	Retries int
	Backoff time.Duration

	PolicyFile string
}

// Policy is the optional YAML file overriding the retry and rotation
// settings.
type Policy struct {
	Models  []string `yaml:"models"`
	Retries int      `yaml:"retries"`
	Backoff string   `yaml:"backoff"`
}

// LoadConfig reads .env (when present) and the process environment, then
// applies the policy file named by MERNGEN_POLICY_FILE.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	if cfg.PolicyFile != "" {
		p, err := LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return nil, err
		}
		if err := cfg.ApplyPolicy(p); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// FromEnv builds a Config from getenv without touching the filesystem.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }

	proxyURL := get("MERN_GEN_PROXY_URL")
	backend := strings.ToLower(get("MERNGEN_BACKEND"))
	if backend == "" {
		backend = BackendGemini
		if proxyURL != "" {
			backend = BackendProxy
		}
	}
	if backend != BackendGemini && backend != BackendProxy {
		return nil, errs.Newf(errs.EInput, "MERNGEN_BACKEND must be %q or %q, got %q", BackendGemini, BackendProxy, backend)
	}
	if backend == BackendProxy {
		proxyURL = firstNonEmpty(proxyURL, llm.DefaultProxyURL)
	}

	cfg := &Config{
		Backend:    backend,
		APIKey:     get("GEMINI_API_KEY"),
		ProxyURL:   proxyURL,
		Models:     splitList(get("MERNGEN_MODELS")),
		Retries:    DefaultRetries,
		Backoff:    DefaultBackoff,
		PolicyFile: get("MERNGEN_POLICY_FILE"),
	}
	if len(cfg.Models) == 0 {
		cfg.Models = append([]string(nil), DefaultModels...)
	}
	if raw := get("MERNGEN_RETRIES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, errs.Newf(errs.EInput, "MERNGEN_RETRIES must be a positive integer, got %q", raw)
		}
		cfg.Retries = n
	}
	if raw := get("MERNGEN_BACKOFF"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return nil, errs.Newf(errs.EInput, "MERNGEN_BACKOFF must be a duration, got %q", raw)
		}
		cfg.Backoff = d
	}
	return cfg, nil
}

func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.EInput, "read policy file", err)
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errs.Wrap(errs.EInput, "parse policy file "+path, err)
	}
	return &p, nil
}

// ApplyPolicy overrides the fields p sets.
func (c *Config) ApplyPolicy(p *Policy) error {
	if p == nil {
		return nil
	}
	if models := splitList(strings.Join(p.Models, ",")); len(models) > 0 {
		c.Models = models
	}
	if p.Retries < 0 {
		return errs.Newf(errs.EInput, "policy retries must be positive, got %d", p.Retries)
	}
	if p.Retries > 0 {
		c.Retries = p.Retries
	}
	if b := strings.TrimSpace(p.Backoff); b != "" {
		d, err := time.ParseDuration(b)
		if err != nil || d < 0 {
			return errs.Newf(errs.EInput, "policy backoff must be a duration, got %q", b)
		}
		c.Backoff = d
	}
	return nil
}

// NewBackend builds the configured backend wrapped with request logging.
// A missing API key is fatal for the direct Gemini backend.
func (c *Config) NewBackend(ctx context.Context, logger *log.Logger) (llm.ArchitectureBackend, error) {
	var inner llm.ArchitectureBackend
	switch c.Backend {
	case BackendProxy:
		inner = llm.NewProxyClient(c.ProxyURL)
	case BackendGemini, "":
		model := ""
		if len(c.Models) > 0 {
			model = c.Models[0]
		}
		g, err := llm.NewGeminiClient(ctx, c.APIKey, model)
		if err != nil {
			return nil, err
		}
		inner = g
	default:
		return nil, errs.New(errs.EInput, fmt.Sprintf("unknown backend %q", c.Backend))
	}
	return llm.Wrap(inner, llm.WithLogging(logger)), nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
