// Package config provides the configuration system for jinxpad.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← JINXPAD_*, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← config.toml or config.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - watcher: file watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//
//	lineHeight := cfg.Font.LineHeight()
//	colors, _ := cfg.Colors.Parse()
//
// The merged settings are checked by Validate before Load returns; every
// problem is reported, each one matching ErrInvalidValue.
package config
