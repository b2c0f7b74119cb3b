// Package config loads the application configuration.
//
// # Configuration Sources
//
// Configuration is assembled in the following order, later sources winning:
//
//	1. Default values (Default)
//	2. A YAML file: the --config flag, ENSAIO_CONFIG, ./config.yaml,
//	   ./configs/config.yaml or config.yaml next to the executable
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ENSAIO_<SECTION>_<KEY>:
//
//	ENSAIO_SERVER_PORT=8080
//	ENSAIO_SHEETS_SPREADSHEET_ID=1oIudf9t...
//	ENSAIO_SHEETS_CREDENTIALS_FILE=credenciais.json
//	ENSAIO_SHEETS_OFFLINE=true
//	ENSAIO_LOGGING_OUTPUT=both
//
// # Path Management
//
// Relative credential and log paths are anchored at the executable
// directory by Config.ResolvePaths, which matters when the binary runs as
// an OS service.
package config
