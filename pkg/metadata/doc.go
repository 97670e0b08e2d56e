// Package metadata builds the JSON document an NFT points at: display fields, media
// URIs, ordered attributes, file list, creators and collection details.
package metadata
