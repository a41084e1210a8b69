// Package config provides configuration management for the dashboard.
//
// Configuration is assembled from three sources, later ones winning:
//
//	1. Default() values
//	2. An optional YAML file (config.yaml or configs/config.yaml, or the
//	   path in PREDICTRAM_CONFIG_FILE)
//	3. Environment variables prefixed with PREDICTRAM_
//
// Environment variables follow the struct layout, for example:
//
//	PREDICTRAM_SERVER_PORT=8501
//	PREDICTRAM_DATA_DIR=/srv/index_data
//	PREDICTRAM_DASHBOARD_TICKERS=^NSEI,^BSESN,^NSEBANK
//	PREDICTRAM_LOGGING_LEVEL=debug
//
// Slices are comma separated. Durations use time.ParseDuration syntax.
package config
