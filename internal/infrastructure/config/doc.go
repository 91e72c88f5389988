// Package config loads and validates BenchFlow Core configuration.
//
// Configuration is read from a YAML file, with hardcoded defaults applied
// first and environment variables applied last:
//
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern BENCHFLOW_SECTION_KEY, for
// example BENCHFLOW_DATABASE_PATH or BENCHFLOW_MQTT_HOST.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	log := logging.New(cfg.Logging, version)
package config
