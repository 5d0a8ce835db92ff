package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// configCache stores parsed configuration values keyed by type name.
type configCache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	globalCache = newCache()

	defaultEnvMu     sync.Mutex
	defaultEnvLoaded bool
)

func newCache() *configCache {
	return &configCache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}
}

// EnvFiles returns the dotenv files consulted for the given environment name,
// most specific first: ".env.<appEnv>" then ".env".
func EnvFiles(appEnv string) []string {
	appEnv = strings.TrimSpace(appEnv)
	if appEnv == "" {
		return []string{".env"}
	}
	return []string{".env." + appEnv, ".env"}
}

// LoadEnv loads dotenv files into the process environment. Variables already
// set are never overridden, so earlier files win over later ones. Missing
// files are skipped. With no arguments, EnvFiles(os.Getenv("APP_ENV")) is used.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = EnvFiles(os.Getenv("APP_ENV"))
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", f, err))
		}
	}

	defaultEnvMu.Lock()
	defaultEnvLoaded = true
	defaultEnvMu.Unlock()
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(files ...string) {
	if err := LoadEnv(files...); err != nil {
		panic(fmt.Sprintf("failed to load env files: %v", err))
	}
}

func loadDefaultEnv() {
	defaultEnvMu.Lock()
	loaded := defaultEnvLoaded
	defaultEnvMu.Unlock()
	if !loaded {
		// A broken dotenv file surfaces as a parse error on required fields.
		_ = LoadEnv()
	}
}

// Load parses environment variables into v based on its `env` struct tags.
// Each configuration type is parsed once per process; later calls return the
// cached copy.
//
//	type HTTPConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDefaultEnv()

	typeName := getTypeName[T]()

	if cached, ok := globalCache.get(typeName); ok {
		*v = cached.(T)
		return nil
	}

	globalCache.mu.Lock()
	once, exists := globalCache.onces[typeName]
	if !exists {
		once = new(sync.Once)
		globalCache.onces[typeName] = once
	}
	globalCache.mu.Unlock()

	var err error
	once.Do(func() {
		var parsed T
		if parseErr := env.Parse(&parsed); parseErr != nil {
			err = errors.Join(ErrParsingConfig, parseErr)
			return
		}
		globalCache.mu.Lock()
		globalCache.values[typeName] = parsed
		globalCache.mu.Unlock()
	})
	if err != nil {
		// Allow a retry once the environment is fixed.
		globalCache.mu.Lock()
		delete(globalCache.onces, typeName)
		globalCache.mu.Unlock()
		return err
	}

	if cached, ok := globalCache.get(typeName); ok {
		*v = cached.(T)
		return nil
	}
	return ErrConfigNotLoaded
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// ResetCache drops every cached configuration and forgets that dotenv files
// were loaded. Intended for tests.
func ResetCache() {
	globalCache.mu.Lock()
	globalCache.values = make(map[string]any)
	globalCache.onces = make(map[string]*sync.Once)
	globalCache.mu.Unlock()

	defaultEnvMu.Lock()
	defaultEnvLoaded = false
	defaultEnvMu.Unlock()
}

func (c *configCache) get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

func getTypeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t.PkgPath() + "." + t.String()
}
