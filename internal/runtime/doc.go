// Package runtime wires storage and configuration for a single chat-log
// daemon instance. It owns the Pebble database and hands out the store
// facades the chatlog service and the HTTP server consume.
package runtime
