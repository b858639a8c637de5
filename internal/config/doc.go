// Package config loads the chat-log daemon configuration.
//
// Configuration comes from three layers, each overriding the previous:
// built-in defaults, an optional JSON file, and KIDA_* environment
// variables. DefaultDataDir picks an OS-appropriate location for the Pebble
// store when none is configured.
package config
