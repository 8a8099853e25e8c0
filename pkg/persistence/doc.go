// Package persistence keeps the settings a hub host can change over the
// wire, such as the advertising name, so they survive emulator restarts.
package persistence
