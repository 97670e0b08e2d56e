// Package inspect reads a minted NFT back from the mirror node: its owner, its
// collection and the metadata document its URI points at.
package inspect
