// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Every field is optional; an absent file yields the defaults, which point the
// probe at ws://localhost:8083/ws.
package config
