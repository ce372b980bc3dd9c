// Package config loads the settings of a caret session.
//
// Configuration is resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment (CARET_*)   │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Config file (TOML/YAML) │
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller on the returned Config.
//
// # Basic Usage
//
//	cfg, err := config.Load("caret.toml")
//	if err != nil {
//	    return err
//	}
//	doc, err := dom.Parse(r, cfg.DocumentOptions()...)
//
// A missing config file is not an error; the defaults and environment
// still apply. Load validates the result and reports every invalid
// setting at once.
package config
