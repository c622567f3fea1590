// Package config loads kiosk runtime settings from environment variables
// and declarative page/view manifests from YAML.
//
// Settings are parsed into tagged structs via github.com/caarlos0/env with
// an optional .env bootstrap through github.com/joho/godotenv:
//
//	var s config.Settings
//	if err := config.Load(&s); err != nil {
//	    log.Fatalf("loading settings: %v", err)
//	}
//
// A manifest declares the surfaces a host should register and named
// transition presets:
//
//	pages:
//	  - id: home
//	  - id: catalog
//	    transition: slide-left
//	views:
//	  - id: menu
//	  - id: screensaver
//	transitions:
//	  slide-left:
//	    type: slide
//	    direction: left
//	    duration: 300ms
//
// ParseManifest validates ids and preset references up front so a broken
// manifest fails at startup, not mid-transition.
package config
