// Package console prints human-readable status lines for the example programs and
// the mediamint CLI.
package console
