// Package config loads typed configuration from environment variables.
//
// Values come from the process environment, optionally seeded from dotenv
// files. The default files depend on APP_ENV: ".env.<APP_ENV>" is read first
// and ".env" second. A variable already present in the environment always
// wins, then the environment-specific file, then the shared one.
//
// Parsing is delegated to github.com/caarlos0/env/v11 and dotenv reading to
// github.com/joho/godotenv. Each configuration type is parsed once per
// process and cached; ResetCache clears the cache in tests.
//
//	type HTTPConfig struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
package config
