// Package mediamint uploads media files, assembles HIP-412 NFT metadata and mints
// the NFT on Hedera.
//
// # Packages
//
//   - identity: operator key files (generate, load, resolve from the environment)
//   - storage: uploads to HCS-1 inscriptions or S3, and reading content back
//   - metadata: HIP-412 metadata documents and their builder
//   - mint: collection creation, NFT minting and the transaction context
//   - pipeline: the upload, assemble and mint run with stage reporting
//   - manifest: YAML mint manifests for the mediamint command
//   - session: wiring of the above from environment settings
//
// # Quick Start
//
//	s, err := session.Open(session.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	uploader, _ := s.Uploader(ctx)
//	minter, _ := s.Minter(session.MintOverrides{})
//	outcome, err := s.Runner(uploader, minter, nil).Run(ctx, pipeline.Plan{
//		Name:     "Test NFT",
//		Assets:   []pipeline.AssetSpec{{Key: "image", Path: "image.png"}},
//		ImageKey: "image",
//	})
//
// # Configuration
//
// Operator credentials come from HEDERA_ACCOUNT_ID with either HEDERA_PRIVATE_KEY or a
// key file (MEDIAMINT_KEYPAIR_PATH, default hedera-keypair.json). A .env file in the
// working directory or a parent is loaded first.
package mediamint
