// Package config provides configuration structures and utilities for
// rpvsharvest. It defines the crawl range, output locations, request
// settings and registry endpoints, and loads overrides from a YAML file.
package config
