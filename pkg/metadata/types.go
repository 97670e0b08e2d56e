package metadata

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/hashgraph-online/media-mint-go/pkg/mediatype"
)

const (
	CategoryImage = "image"
	CategoryAudio = "audio"
	CategoryVideo = "video"
	CategoryMixed = "mixed"
)

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

type File struct {
	URI      string `json:"uri"`
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
	CDN      *bool  `json:"cdn,omitempty"`
}

type Creator struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
	Share    int    `json:"share"`
}

type Properties struct {
	Files    []File    `json:"files"`
	Category string    `json:"category,omitempty"`
	Creators []Creator `json:"creators,omitempty"`
}

type Collection struct {
	Name   string `json:"name"`
	Family string `json:"family,omitempty"`
}

// Document is the JSON description of an NFT. Field order here is the order written
// by MarshalCanonical.
type Document struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Image        string            `json:"image"`
	AnimationURL string            `json:"animation_url,omitempty"`
	ExternalURL  string            `json:"external_url,omitempty"`
	Attributes   []Attribute       `json:"attributes"`
	Properties   Properties        `json:"properties"`
	Media        map[string]any    `json:"media,omitempty"`
	Collection   *Collection       `json:"collection,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Technical    map[string]string `json:"technical,omitempty"`
}

// MarshalCanonical encodes the document with struct field order, sorted map keys, no
// HTML escaping and no trailing newline. Empty attribute and file lists are written as
// [] rather than null.
func (d Document) MarshalCanonical() ([]byte, error) {
	if d.Attributes == nil {
		d.Attributes = []Attribute{}
	}
	if d.Properties.Files == nil {
		d.Properties.Files = []File{}
	}

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(d); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}

// URIs returns every content URI the document references, primary image first.
func (d Document) URIs() []string {
	seen := map[string]bool{}
	uris := make([]string, 0, len(d.Properties.Files)+3)
	add := func(uri string) {
		if uri == "" || seen[uri] {
			return
		}
		seen[uri] = true
		uris = append(uris, uri)
	}

	add(d.Image)
	add(d.AnimationURL)
	add(d.ExternalURL)
	for _, file := range d.Properties.Files {
		add(file.URI)
	}
	return uris
}

// SingleCreator attributes the whole work to one verified address.
func SingleCreator(address string) []Creator {
	return []Creator{{Address: strings.TrimSpace(address), Verified: true, Share: 100}}
}

// CategoryFor picks the properties category for a primary media type.
func CategoryFor(mimeType string) string {
	switch mediatype.Family(mimeType) {
	case "audio":
		return CategoryAudio
	case "video":
		return CategoryVideo
	default:
		return CategoryImage
	}
}
