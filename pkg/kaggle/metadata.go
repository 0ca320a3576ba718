package kaggle

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// License is one entry of the metadata licenses list.
type License struct {
	Name string `json:"name"`
}

// Metadata is the dataset-metadata.json contents. ID has the form
// "owner/slug".
type Metadata struct {
	Title       string    `json:"title"`
	ID          string    `json:"id"`
	Licenses    []License `json:"licenses,omitempty"`
	Description string    `json:"description,omitempty"`
}

// OwnerSlug splits the dataset ID into its owner and slug parts.
func (m Metadata) OwnerSlug() (string, string, error) {
	owner, slug, ok := strings.Cut(m.ID, "/")
	if !ok || owner == "" || slug == "" {
		return "", "", fmt.Errorf("dataset id %q is not owner/slug", m.ID)
	}
	return owner, slug, nil
}

// LoadMetadata reads the dataset metadata file and, when descriptionPath
// is non-empty, injects the markdown description into it.
func LoadMetadata(metadataPath, descriptionPath string) (Metadata, error) {
	data, err := os.ReadFile(metadataPath)
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata %s: %w", metadataPath, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata %s: %w", metadataPath, err)
	}
	if meta.ID == "" {
		return Metadata{}, fmt.Errorf("metadata %s has no dataset id", metadataPath)
	}

	if descriptionPath != "" {
		desc, err := os.ReadFile(descriptionPath)
		if err != nil {
			return Metadata{}, fmt.Errorf("read description %s: %w", descriptionPath, err)
		}
		meta.Description = string(desc)
	}

	return meta, nil
}
