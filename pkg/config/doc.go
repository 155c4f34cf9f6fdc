// Package config loads the vpkg YAML configuration.
//
// The file is optional. Load reads it from an explicit path or $VPKG_CONFIG, decodes
// it over Default with unknown keys rejected, applies $LOG_LEVEL and $VPKG_STORE, and
// validates the result:
//
//	logging:
//	  level: info
//	store:
//	  enabled: true
//	  path: ~/.vpkg/snapshots.db
//	  retention: 720h
//	facts:
//	  microarch: x86_64_v3
//	  glibc_version: "2.35"
//	overrides:
//	  cuda: null     # hide __cuda
//	  osx: "13.0"    # report __osx=13.0
//
// Watch reloads the file as it changes.
package config
