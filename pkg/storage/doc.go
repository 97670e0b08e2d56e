// Package storage uploads local files and metadata documents to content storage and
// reads them back.
//
// Two backends implement Uploader: InscriberUploader writes HCS-1 files to Hedera
// topics and returns hcs://1/<topic> URIs, and S3Uploader writes content-addressed
// objects to any S3-compatible bucket. Resolver and Verify check that a URI serves
// exactly the bytes that were uploaded.
package storage
