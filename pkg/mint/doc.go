// Package mint submits NFT mint transactions to Hedera.
//
// A mint writes the metadata URI into a new serial of a non-fungible token. When no
// token ID is configured a collection token is created first. Transaction IDs come from
// a TxContext that is refreshed right before submission, so a slow upload phase never
// leaves the mint with an expired validity window.
package mint
