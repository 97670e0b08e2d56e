// Package mirror is a small read-only client for the Hedera mirror node REST API.
//
// It reads the topic messages behind hcs://1 references, and the NFT and token
// records used to inspect what a mint produced.
package mirror
