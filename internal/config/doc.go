// Package config provides configuration loading, merging, and validation
// facilities for the offline sync agent.
//
// Configuration is assembled from multiple sources. A field set by an
// earlier source is never overwritten by a later one:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry point is [GetStructuredConfig]. Engine settings can be
// validated on their own with [Engine.Validate] when the engine is embedded
// in another program.
package config
