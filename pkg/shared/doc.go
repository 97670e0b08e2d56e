// Package shared holds the pieces every other package needs: network name
// normalization, consensus and mirror node endpoints, operator credentials read
// from the environment or a .env file, run settings, key parsing and the zap
// logger used across the module.
//
// # Environment Variables
//
//	HEDERA_NETWORK           mainnet, testnet (default) or previewnet
//	HEDERA_ACCOUNT_ID        paying account; MAINNET_/TESTNET_ scoped variants win
//	HEDERA_PRIVATE_KEY       optional when a key file is used
//	MEDIAMINT_KEYPAIR_PATH   JSON key file, defaults to hedera-keypair.json
//	MEDIAMINT_TOKEN_ID       existing NFT collection to mint into
//	MEDIAMINT_SUPPLY_KEY     supply key for that collection, if not the operator key
//	MEDIAMINT_STORAGE        inscriber (default) or s3
//	MEDIAMINT_S3_*           bucket, endpoint, region, public URL, key prefix and access keys
//	MEDIAMINT_LOG_LEVEL      zap level name
package shared
