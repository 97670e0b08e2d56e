package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashgraph-online/media-mint-go/pkg/mediatype"
	"github.com/hashgraph-online/media-mint-go/pkg/metadata"
	"github.com/hashgraph-online/media-mint-go/pkg/storage"
)

const DefaultMetadataName = "metadata.json"

// AssetSpec declares one local file to upload. Key is how the plan's roles refer to it.
type AssetSpec struct {
	Key      string
	Path     string
	Name     string
	MimeType string
	// Category is written to the file's properties entry, e.g. "cover" or "audio".
	Category string
	CDN      *bool
}

// Plan describes one NFT: the files to upload, which of them fill the image,
// animation and external roles, and the descriptive metadata.
type Plan struct {
	Name        string
	Description string
	Assets      []AssetSpec

	ImageKey     string
	AnimationKey string
	ExternalKey  string
	// ExternalURL is used as is when ExternalKey is blank.
	ExternalURL string

	Attributes []metadata.Attribute
	// Category defaults from the media type of the animation asset, or the image.
	Category   string
	Creators   []metadata.Creator
	Collection *metadata.Collection
	Tags       []string
	Media      map[string]any
	Technical  map[string]string

	// UploadTags are attached to every asset upload, e.g. App-Name.
	UploadTags   map[string]string
	MetadataName string
	Memo         string
}

type resolvedAsset struct {
	spec     AssetSpec
	mimeType string
}

// validate checks the plan and every declared file without any network access.
func (p Plan) validate() ([]resolvedAsset, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, &metadata.InvalidMetadataError{Field: "name", Reason: "is required"}
	}
	if len(p.Assets) == 0 {
		return nil, fmt.Errorf("plan declares no assets")
	}

	keys := make(map[string]bool, len(p.Assets))
	resolved := make([]resolvedAsset, 0, len(p.Assets))
	for index, spec := range p.Assets {
		spec.Key = strings.TrimSpace(spec.Key)
		spec.Path = strings.TrimSpace(spec.Path)
		if spec.Key == "" {
			return nil, fmt.Errorf("asset %d has no key", index)
		}
		if keys[spec.Key] {
			return nil, fmt.Errorf("asset key %q is declared twice", spec.Key)
		}
		keys[spec.Key] = true
		if spec.Path == "" {
			return nil, fmt.Errorf("asset %q has no path", spec.Key)
		}
		resolved = append(resolved, resolvedAsset{
			spec:     spec,
			mimeType: mediatype.Resolve(spec.Path, spec.MimeType),
		})
	}

	imageKey := strings.TrimSpace(p.ImageKey)
	if imageKey == "" {
		return nil, &metadata.InvalidMetadataError{Field: "image", Reason: "needs an asset key"}
	}
	for field, key := range map[string]string{
		"image":         imageKey,
		"animation_url": strings.TrimSpace(p.AnimationKey),
		"external_url":  strings.TrimSpace(p.ExternalKey),
	} {
		if key != "" && !keys[key] {
			return nil, &metadata.InvalidMetadataError{
				Field:  field,
				Reason: fmt.Sprintf("refers to undeclared asset %q", key),
			}
		}
	}

	// Every unreadable file is reported, not just the first.
	var missing []error
	for _, asset := range resolved {
		if _, err := storage.StatFile(asset.spec.Path); err != nil {
			missing = append(missing, err)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	return resolved, nil
}

func (p Plan) metadataName() string {
	if name := strings.TrimSpace(p.MetadataName); name != "" {
		return name
	}
	return DefaultMetadataName
}
