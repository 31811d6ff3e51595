// Package config provides configuration management for the EC research
// dashboard. It handles loading configuration from multiple sources,
// validation, and the immutable school roster.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (config.yaml)
//	3. Default values (lowest priority)
//
// All environment variables follow the pattern ECDASH_* for namespacing:
//
//	ECDASH_SERVER_PORT=8080
//	ECDASH_PATHS_DATA_DIR=data
//	ECDASH_LOGGING_LEVEL=info
//
// # School roster
//
// The school→{target EC, display color} mapping defaults to the built-in
// four-school experiment table and can be replaced by a schools.yaml file.
// The roster is resolved once at startup and passed explicitly into the
// loader and summarizer, so tests can substitute alternate school sets.
package config
