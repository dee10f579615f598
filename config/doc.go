// Package config loads flowkit runner configuration.
//
// LoadConfig resolves a config.yml and a .env file, overlays environment
// variables and decodes the result with viper into any struct using
// mapstructure tags. Structs that implement Defaulter and Checker get their
// defaults applied and are validated after decoding.
//
// # Usage
//
//	var cfg config.RunnerConfig
//	if err := config.LoadConfig("flowrun", &cfg, config.WithEnvPrefix("FLOWRUN")); err != nil {
//		return err
//	}
//
// With the prefix set, FLOWRUN_MAX_PARALLEL=4 sets max_parallel and
// FLOWRUN_LOGGING_LEVEL=debug sets logging.level.
package config
