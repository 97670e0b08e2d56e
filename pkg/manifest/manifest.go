package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashgraph-online/media-mint-go/pkg/metadata"
	"github.com/hashgraph-online/media-mint-go/pkg/mint"
	"github.com/hashgraph-online/media-mint-go/pkg/pipeline"
	"gopkg.in/yaml.v3"
)

type Asset struct {
	Key      string `yaml:"key"`
	Path     string `yaml:"path"`
	Name     string `yaml:"name,omitempty"`
	MimeType string `yaml:"mime_type,omitempty"`
	Category string `yaml:"category,omitempty"`
	CDN      *bool  `yaml:"cdn,omitempty"`
}

type Attribute struct {
	TraitType string `yaml:"trait_type"`
	Value     any    `yaml:"value"`
}

type Creator struct {
	Address  string `yaml:"address"`
	Verified bool   `yaml:"verified"`
	Share    int    `yaml:"share"`
}

type Collection struct {
	Name   string `yaml:"name"`
	Family string `yaml:"family,omitempty"`
}

type Mint struct {
	TokenID        string        `yaml:"token_id,omitempty"`
	Commitment     string        `yaml:"commitment"`
	ConfirmTimeout time.Duration `yaml:"confirm_timeout"`
	Memo           string        `yaml:"memo,omitempty"`
}

// Manifest is the YAML description of one NFT mint.
type Manifest struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Assets      []Asset `yaml:"assets"`

	Image       string `yaml:"image"`
	Animation   string `yaml:"animation,omitempty"`
	External    string `yaml:"external,omitempty"`
	ExternalURL string `yaml:"external_url,omitempty"`

	Attributes []Attribute       `yaml:"attributes,omitempty"`
	Category   string            `yaml:"category,omitempty"`
	Creators   []Creator         `yaml:"creators,omitempty"`
	Collection *Collection       `yaml:"collection,omitempty"`
	Tags       []string          `yaml:"tags,omitempty"`
	Media      map[string]any    `yaml:"media,omitempty"`
	Technical  map[string]string `yaml:"technical,omitempty"`
	UploadTags map[string]string `yaml:"upload_tags,omitempty"`

	MetadataName string `yaml:"metadata_name"`
	Parallel     int    `yaml:"parallel"`
	Mint         Mint   `yaml:"mint"`

	// dir is the directory relative asset paths are resolved against.
	dir string
}

// DefaultManifest returns a Manifest with default values
func DefaultManifest() *Manifest {
	return &Manifest{
		Name:        "My NFT",
		Description: "Minted with mediamint",
		Assets: []Asset{
			{Key: "image", Path: "assets/images/cover.jpg", Category: "image"},
		},
		Image: "image",
		Attributes: []Attribute{
			{TraitType: "Type", Value: "Image NFT"},
		},
		MetadataName: pipeline.DefaultMetadataName,
		Mint: Mint{
			Commitment:     string(mint.CommitmentReceipt),
			ConfirmTimeout: mint.DefaultConfirmTimeout,
		},
	}
}

// Load reads a manifest. Unlike settings, a missing manifest is an error.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if strings.TrimSpace(m.MetadataName) == "" {
		m.MetadataName = pipeline.DefaultMetadataName
	}
	if strings.TrimSpace(m.Mint.Commitment) == "" {
		m.Mint.Commitment = string(mint.CommitmentReceipt)
	}
	if m.Mint.ConfirmTimeout <= 0 {
		m.Mint.ConfirmTimeout = mint.DefaultConfirmTimeout
	}
	m.dir = filepath.Dir(path)

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Save writes the manifest as YAML, creating parent directories.
func (m *Manifest) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Validate checks the manifest's structure. File existence is checked when the plan
// runs, before any upload.
func (m *Manifest) Validate() error {
	var problems []error

	if strings.TrimSpace(m.Name) == "" {
		problems = append(problems, errors.New("name is required"))
	}
	if len(m.Assets) == 0 {
		problems = append(problems, errors.New("at least one asset is required"))
	}

	keys := make(map[string]bool, len(m.Assets))
	for index, asset := range m.Assets {
		key := strings.TrimSpace(asset.Key)
		switch {
		case key == "":
			problems = append(problems, fmt.Errorf("assets[%d]: key is required", index))
		case keys[key]:
			problems = append(problems, fmt.Errorf("assets[%d]: duplicate key %q", index, key))
		}
		keys[key] = true
		if strings.TrimSpace(asset.Path) == "" {
			problems = append(problems, fmt.Errorf("assets[%d]: path is required", index))
		}
	}

	if strings.TrimSpace(m.Image) == "" {
		problems = append(problems, errors.New("image must name an asset key"))
	}
	for field, key := range map[string]string{"image": m.Image, "animation": m.Animation, "external": m.External} {
		if trimmed := strings.TrimSpace(key); trimmed != "" && !keys[trimmed] {
			problems = append(problems, fmt.Errorf("%s refers to unknown asset %q", field, trimmed))
		}
	}
	if strings.TrimSpace(m.External) != "" && strings.TrimSpace(m.ExternalURL) != "" {
		problems = append(problems, errors.New("external and external_url are mutually exclusive"))
	}

	if len(m.Creators) > 0 {
		total := 0
		for _, creator := range m.Creators {
			total += creator.Share
		}
		if total != 100 {
			problems = append(problems, fmt.Errorf("creator shares must sum to 100, got %d", total))
		}
	}

	if _, err := mint.ParseCommitment(m.Mint.Commitment); err != nil {
		problems = append(problems, err)
	}
	if m.Parallel < 0 {
		problems = append(problems, errors.New("parallel cannot be negative"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid manifest: %w", errors.Join(problems...))
	}
	return nil
}

// Plan converts the manifest into a pipeline plan. Relative asset paths are resolved
// against the manifest's directory.
func (m *Manifest) Plan() pipeline.Plan {
	assets := make([]pipeline.AssetSpec, 0, len(m.Assets))
	for _, asset := range m.Assets {
		path := asset.Path
		if m.dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(m.dir, path)
		}
		assets = append(assets, pipeline.AssetSpec{
			Key:      asset.Key,
			Path:     path,
			Name:     asset.Name,
			MimeType: asset.MimeType,
			Category: asset.Category,
			CDN:      asset.CDN,
		})
	}

	attributes := make([]metadata.Attribute, 0, len(m.Attributes))
	for _, attribute := range m.Attributes {
		attributes = append(attributes, metadata.Attribute{TraitType: attribute.TraitType, Value: attribute.Value})
	}

	var creators []metadata.Creator
	for _, creator := range m.Creators {
		creators = append(creators, metadata.Creator{
			Address:  creator.Address,
			Verified: creator.Verified,
			Share:    creator.Share,
		})
	}

	var collection *metadata.Collection
	if m.Collection != nil {
		collection = &metadata.Collection{Name: m.Collection.Name, Family: m.Collection.Family}
	}

	return pipeline.Plan{
		Name:         m.Name,
		Description:  m.Description,
		Assets:       assets,
		ImageKey:     m.Image,
		AnimationKey: m.Animation,
		ExternalKey:  m.External,
		ExternalURL:  m.ExternalURL,
		Attributes:   attributes,
		Category:     m.Category,
		Creators:     creators,
		Collection:   collection,
		Tags:         m.Tags,
		Media:        m.Media,
		Technical:    m.Technical,
		UploadTags:   m.UploadTags,
		MetadataName: m.MetadataName,
		Memo:         m.Mint.Memo,
	}
}

// Commitment returns the parsed mint commitment level.
func (m *Manifest) Commitment() mint.Commitment {
	commitment, err := mint.ParseCommitment(m.Mint.Commitment)
	if err != nil {
		return mint.CommitmentReceipt
	}
	return commitment
}
