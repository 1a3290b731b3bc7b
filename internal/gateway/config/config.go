package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"merngen/internal/cache/architecture"
	"merngen/internal/errs"
	"merngen/internal/generate"
)

type Config struct {
	Port     string
	Env      string
	Generate *generate.Config
	Cache    CacheConfig

	// CORSOrigins lists the browser origins allowed to call the proxy; empty
	// allows any origin.
	CORSOrigins []string

	// RPM caps backend requests per minute across all clients; 0 disables.
	RPM float64
}

// DefaultRPM matches the Gemini free tier.
const DefaultRPM = 15

type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// Load reads .env, flags from args and the environment. The gateway always
// calls the model directly, so the backend is forced to Gemini.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)
	port := fs.String("port", ":3000", "server port")
	if err := fs.Parse(args); err != nil {
		return nil, errs.Wrap(errs.EInput, "parse flags", err)
	}
	return build(*port, os.Getenv)
}

func build(port string, getenv func(string) string) (*Config, error) {
	if envPort := strings.TrimSpace(getenv("PORT")); envPort != "" {
		port = normalizePort(envPort)
	}

	gen, err := generate.FromEnv(getenv)
	if err != nil {
		return nil, err
	}
	if path := gen.PolicyFile; path != "" {
		p, err := generate.LoadPolicy(path)
		if err != nil {
			return nil, err
		}
		if err := gen.ApplyPolicy(p); err != nil {
			return nil, err
		}
	}
	gen.Backend = generate.BackendGemini

	cache, err := loadCacheConfig(getenv)
	if err != nil {
		return nil, err
	}
	rpm := float64(DefaultRPM)
	if raw := strings.TrimSpace(getenv("MERNGEN_RPM")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, errs.Newf(errs.EInput, "MERNGEN_RPM must be a non-negative number, got %q", raw)
		}
		rpm = v
	}
	return &Config{
		Port:        port,
		Env:         firstNonEmpty(strings.TrimSpace(getenv("APP_ENV")), "local"),
		Generate:    gen,
		Cache:       cache,
		RPM:         rpm,
		CORSOrigins: splitOrigins(getenv("MERNGEN_CORS_ORIGINS")),
	}, nil
}

func normalizePort(p string) string {
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}

func loadCacheConfig(getenv func(string) string) (CacheConfig, error) {
	out := CacheConfig{Size: architecture.DefaultSize, TTL: architecture.DefaultTTL}
	if raw := strings.TrimSpace(getenv("MERNGEN_CACHE_SIZE")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return out, errs.Newf(errs.EInput, "MERNGEN_CACHE_SIZE must be a positive integer, got %q", raw)
		}
		out.Size = n
	}
	if raw := strings.TrimSpace(getenv("MERNGEN_CACHE_TTL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return out, errs.Newf(errs.EInput, "MERNGEN_CACHE_TTL must be a positive duration, got %q", raw)
		}
		out.TTL = d
	}
	return out, nil
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
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
