// Package cli implements the mediamint command line.
package cli
