package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(params.Body)
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3UploaderContentAddressedKey(t *testing.T) {
	putter := &fakePutter{}
	uploader := NewS3UploaderWithClient(putter, "nft-media", "/media/", "https://cdn.example.com/", nil)

	blob := Blob{
		Name:     "Cover.JPEG",
		Data:     []byte("jpeg-bytes"),
		MimeType: "image/jpeg",
		Tags:     map[string]string{TagContentType: "image/jpeg", "App-Name": "media-mint"},
	}
	asset, err := uploader.Upload(context.Background(), blob)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	expectedKey := "media/" + ContentAddress(blob.Data) + ".jpeg"
	if aws.ToString(putter.inputs[0].Key) != expectedKey {
		t.Fatalf("unexpected key %s", aws.ToString(putter.inputs[0].Key))
	}
	if asset.URI != "https://cdn.example.com/"+expectedKey {
		t.Fatalf("unexpected URI %s", asset.URI)
	}
	if aws.ToString(putter.inputs[0].Bucket) != "nft-media" || aws.ToString(putter.inputs[0].ContentType) != "image/jpeg" {
		t.Fatalf("unexpected put input %+v", putter.inputs[0])
	}
	if putter.inputs[0].Metadata["app-name"] != "media-mint" {
		t.Fatalf("tags not stored as metadata: %v", putter.inputs[0].Metadata)
	}
	if _, ok := putter.inputs[0].Metadata["content-type"]; ok {
		t.Fatalf("Content-Type must not be duplicated into metadata")
	}
	if string(putter.bodies[0]) != "jpeg-bytes" {
		t.Fatalf("unexpected body %q", putter.bodies[0])
	}
}

func TestS3UploaderSameBytesSameURI(t *testing.T) {
	uploader := NewS3UploaderWithClient(&fakePutter{}, "b", "", "https://cdn.example.com", nil)
	first, _ := uploader.Upload(context.Background(), Blob{Name: "a.json", Data: []byte("{}"), MimeType: "application/json"})
	second, _ := uploader.Upload(context.Background(), Blob{Name: "b.json", Data: []byte("{}"), MimeType: "application/json"})
	if first.URI != second.URI {
		t.Fatalf("expected identical URIs, got %s and %s", first.URI, second.URI)
	}
}

func TestS3UploaderExtensionFromMimeType(t *testing.T) {
	uploader := NewS3UploaderWithClient(&fakePutter{}, "b", "", "https://cdn.example.com", nil)
	key := uploader.ObjectKey(Blob{Name: "metadata", Data: []byte("x"), MimeType: "application/json"})
	if key != ContentAddress([]byte("x"))+".json" {
		t.Fatalf("unexpected key %s", key)
	}
}

func TestS3UploaderMetadataURIFitsTokenMetadata(t *testing.T) {
	uploader, err := NewS3Uploader(context.Background(), S3Config{Bucket: "media", Region: "us-east-1"})
	if err != nil {
		t.Fatalf("NewS3Uploader failed: %v", err)
	}
	uploader.client = &fakePutter{}

	asset, err := UploadJSON(context.Background(), uploader, "metadata.json", map[string]any{"name": "Test NFT"})
	if err != nil {
		t.Fatalf("UploadJSON failed: %v", err)
	}
	if len(asset.URI) > 100 {
		t.Fatalf("metadata URI %q is %d bytes", asset.URI, len(asset.URI))
	}
	if got := uploader.PredictURILength("metadata.json", "application/json"); got != len(asset.URI) {
		t.Fatalf("predicted %d bytes, URI has %d", got, len(asset.URI))
	}
}

func TestContentAddress(t *testing.T) {
	address := ContentAddress([]byte("x"))
	if len(address) != ContentAddressLength {
		t.Fatalf("expected %d characters, got %q", ContentAddressLength, address)
	}
	if address != ContentAddress([]byte("x")) || address == ContentAddress([]byte("y")) {
		t.Fatalf("content address must follow the bytes")
	}
	if strings.ContainsAny(address, "+/=") {
		t.Fatalf("content address %q is not URL safe", address)
	}
}

func TestS3UploaderWrapsErrors(t *testing.T) {
	uploader := NewS3UploaderWithClient(&fakePutter{err: errors.New("AccessDenied")}, "b", "", "https://cdn.example.com", nil)
	_, err := uploader.Upload(context.Background(), Blob{Name: "a.png", Data: []byte("x")})

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) || uploadErr.Backend != "s3" {
		t.Fatalf("expected s3 UploadError, got %v", err)
	}
}

func TestNewS3UploaderDefaults(t *testing.T) {
	if _, err := NewS3Uploader(context.Background(), S3Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}

	uploader, err := NewS3Uploader(context.Background(), S3Config{
		Bucket:          "nft-media",
		Endpoint:        "http://localhost:9000/",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
	})
	if err != nil {
		t.Fatalf("NewS3Uploader failed: %v", err)
	}
	if uploader.publicBaseURL != "http://localhost:9000/nft-media" {
		t.Fatalf("unexpected public base URL %s", uploader.publicBaseURL)
	}

	defaultUploader, err := NewS3Uploader(context.Background(), S3Config{Bucket: "nft-media", Region: "eu-west-1"})
	if err != nil {
		t.Fatalf("NewS3Uploader failed: %v", err)
	}
	if defaultUploader.publicBaseURL != "https://nft-media.s3.eu-west-1.amazonaws.com" {
		t.Fatalf("unexpected public base URL %s", defaultUploader.publicBaseURL)
	}
}
