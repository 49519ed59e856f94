// Package config handles application configuration loading and validation.
//
// Configuration is read from a YAML file and validated using struct tags.
// A .env file and environment variables override the file values.
package config
