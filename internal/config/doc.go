// Package config provides configuration loading, merging, and validation
// facilities for the scrapegate server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. JSON config file
//  3. Environment variables (an optional .env file is loaded first)
//  4. Command-line flags
//
// The main entry point is [GetStructuredConfig].
package config
