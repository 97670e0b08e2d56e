package metadata

import (
	"fmt"
	"strings"
)

type Builder struct {
	document Document
}

func NewBuilder() *Builder {
	return &Builder{
		document: Document{
			Attributes: []Attribute{},
			Properties: Properties{Files: []File{}},
		},
	}
}

func (builder *Builder) SetName(name string) *Builder {
	builder.document.Name = strings.TrimSpace(name)
	return builder
}

func (builder *Builder) SetDescription(description string) *Builder {
	builder.document.Description = description
	return builder
}

func (builder *Builder) SetImage(uri string) *Builder {
	builder.document.Image = strings.TrimSpace(uri)
	return builder
}

func (builder *Builder) SetAnimationURL(uri string) *Builder {
	builder.document.AnimationURL = strings.TrimSpace(uri)
	return builder
}

func (builder *Builder) SetExternalURL(uri string) *Builder {
	builder.document.ExternalURL = strings.TrimSpace(uri)
	return builder
}

// AddAttribute appends a trait. Order is kept and duplicates are allowed.
func (builder *Builder) AddAttribute(traitType string, value any) *Builder {
	builder.document.Attributes = append(builder.document.Attributes, Attribute{
		TraitType: traitType,
		Value:     value,
	})
	return builder
}

func (builder *Builder) SetAttributes(attributes []Attribute) *Builder {
	builder.document.Attributes = append([]Attribute{}, attributes...)
	return builder
}

func (builder *Builder) AddFile(file File) *Builder {
	builder.document.Properties.Files = append(builder.document.Properties.Files, file)
	return builder
}

func (builder *Builder) SetCategory(category string) *Builder {
	builder.document.Properties.Category = strings.TrimSpace(category)
	return builder
}

func (builder *Builder) AddCreator(address string, verified bool, share int) *Builder {
	builder.document.Properties.Creators = append(builder.document.Properties.Creators, Creator{
		Address:  strings.TrimSpace(address),
		Verified: verified,
		Share:    share,
	})
	return builder
}

func (builder *Builder) SetCreators(creators []Creator) *Builder {
	builder.document.Properties.Creators = append([]Creator{}, creators...)
	return builder
}

func (builder *Builder) SetCollection(name string, family string) *Builder {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		builder.document.Collection = nil
		return builder
	}
	builder.document.Collection = &Collection{Name: trimmedName, Family: strings.TrimSpace(family)}
	return builder
}

func (builder *Builder) AddTag(tag string) *Builder {
	if trimmed := strings.TrimSpace(tag); trimmed != "" {
		builder.document.Tags = append(builder.document.Tags, trimmed)
	}
	return builder
}

func (builder *Builder) SetMedia(key string, value any) *Builder {
	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return builder
	}
	if builder.document.Media == nil {
		builder.document.Media = map[string]any{}
	}
	builder.document.Media[trimmedKey] = value
	return builder
}

func (builder *Builder) SetTechnical(key string, value string) *Builder {
	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return builder
	}
	if builder.document.Technical == nil {
		builder.document.Technical = map[string]string{}
	}
	builder.document.Technical[trimmedKey] = value
	return builder
}

// Build validates the document and returns a copy the builder no longer shares.
func (builder *Builder) Build() (Document, error) {
	document := builder.document

	if document.Name == "" {
		return Document{}, &InvalidMetadataError{Field: "name", Reason: "is required"}
	}
	if document.Image == "" {
		return Document{}, &InvalidMetadataError{Field: "image", Reason: "is required"}
	}

	for index, file := range document.Properties.Files {
		if strings.TrimSpace(file.URI) == "" {
			return Document{}, &InvalidMetadataError{Field: fmt.Sprintf("properties.files[%d].uri", index), Reason: "is required"}
		}
		if strings.TrimSpace(file.Type) == "" {
			return Document{}, &InvalidMetadataError{Field: fmt.Sprintf("properties.files[%d].type", index), Reason: "is required"}
		}
	}

	if err := validateCreators(document.Properties.Creators); err != nil {
		return Document{}, err
	}

	document.Attributes = append([]Attribute{}, document.Attributes...)
	document.Properties.Files = append([]File{}, document.Properties.Files...)
	if document.Properties.Creators != nil {
		document.Properties.Creators = append([]Creator{}, document.Properties.Creators...)
	}
	if document.Tags != nil {
		document.Tags = append([]string{}, document.Tags...)
	}
	document.Media = copyMap(document.Media)
	if document.Technical != nil {
		technical := make(map[string]string, len(document.Technical))
		for key, value := range document.Technical {
			technical[key] = value
		}
		document.Technical = technical
	}
	if document.Collection != nil {
		collection := *document.Collection
		document.Collection = &collection
	}

	return document, nil
}

func validateCreators(creators []Creator) error {
	if len(creators) == 0 {
		return nil
	}

	total := 0
	for index, creator := range creators {
		if creator.Address == "" {
			return &InvalidMetadataError{Field: fmt.Sprintf("properties.creators[%d].address", index), Reason: "is required"}
		}
		if creator.Share < 0 || creator.Share > 100 {
			return &InvalidMetadataError{
				Field:  fmt.Sprintf("properties.creators[%d].share", index),
				Reason: fmt.Sprintf("must be between 0 and 100, got %d", creator.Share),
			}
		}
		total += creator.Share
	}
	if total != 100 {
		return &InvalidMetadataError{
			Field:  "properties.creators",
			Reason: fmt.Sprintf("shares must sum to 100, got %d", total),
		}
	}
	return nil
}

func copyMap(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	copied := make(map[string]any, len(values))
	for key, value := range values {
		copied[key] = value
	}
	return copied
}
