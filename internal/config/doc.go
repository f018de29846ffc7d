// Package config defines the optional packager settings and provides
// helpers to load and validate them in YAML format.
package config
