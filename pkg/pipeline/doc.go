// Package pipeline runs the upload, assemble and mint steps for one NFT.
//
// A Runner validates every declared file before touching the network, uploads the
// assets, builds the metadata document from the returned URIs, uploads it, and mints a
// serial pointing at it. Any failure stops the run; nothing is resumed or deduplicated.
package pipeline
