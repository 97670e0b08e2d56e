// Package session assembles the collaborators a program run needs from environment
// settings: identity, storage backend, minter and pipeline runner.
package session
