package catalog

import (
	"embed"
	"fmt"
	"strings"

	"filevault/internal/domain/models/filesystem"

	"gopkg.in/yaml.v3"
)

//go:embed config/catalog.yaml
var configFiles embed.FS

// ItemTypeInfo describes an item kind for clients
type ItemTypeInfo struct {
	Type        filesystem.ItemType `yaml:"type" json:"type"`
	DisplayName string              `yaml:"display_name" json:"display_name"`
	Storage     string              `yaml:"storage" json:"storage"` // inline or file
}

// Classification is how an uploaded MIME type is filed
type Classification struct {
	FileType     filesystem.FileType `yaml:"file_type" json:"file_type"`
	Folder       string              `yaml:"folder" json:"folder"`
	ResourceKind string              `yaml:"resource_kind" json:"resource_kind"`
}

type mimeRule struct {
	Prefix         string `yaml:"prefix"`
	Classification `yaml:",inline"`
}

type document struct {
	ItemTypes []ItemTypeInfo `yaml:"item_types"`
	MimeRules []mimeRule     `yaml:"mime_rules"`
	Fallback  Classification `yaml:"fallback"`
}

// Catalog is the immutable item-type and MIME classification table
type Catalog struct {
	itemTypes []ItemTypeInfo
	rules     []mimeRule
	fallback  Classification
}

// Load parses the embedded catalog
func Load() (*Catalog, error) {
	data, err := configFiles.ReadFile("config/catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// MustLoad is Load for package-level defaults; the embedded file is fixed at build time
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML and checks it against the known types
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	for _, info := range doc.ItemTypes {
		if _, err := filesystem.ParseItemType(string(info.Type)); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	for _, rule := range doc.MimeRules {
		if rule.Prefix == "" {
			return nil, fmt.Errorf("catalog: mime rule with empty prefix")
		}
		if err := validateClassification(rule.Classification); err != nil {
			return nil, fmt.Errorf("catalog: rule %q: %w", rule.Prefix, err)
		}
	}
	if err := validateClassification(doc.Fallback); err != nil {
		return nil, fmt.Errorf("catalog: fallback: %w", err)
	}

	return &Catalog{
		itemTypes: doc.ItemTypes,
		rules:     doc.MimeRules,
		fallback:  doc.Fallback,
	}, nil
}

func validateClassification(c Classification) error {
	switch c.FileType {
	case filesystem.FileTypeImage, filesystem.FileTypeVideo, filesystem.FileTypeAudio, filesystem.FileTypeDocument:
	default:
		return fmt.Errorf("unknown file type %q", c.FileType)
	}
	if c.Folder == "" || c.ResourceKind == "" {
		return fmt.Errorf("folder and resource_kind are required")
	}
	return nil
}

// Classify maps a MIME type to its file type, storage folder and resource kind
func (c *Catalog) Classify(mimeType string) Classification {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, rule := range c.rules {
		if strings.HasPrefix(mimeType, rule.Prefix) {
			return rule.Classification
		}
	}
	return c.fallback
}

// ItemTypes lists the item kinds in catalog order
func (c *Catalog) ItemTypes() []ItemTypeInfo {
	out := make([]ItemTypeInfo, len(c.itemTypes))
	copy(out, c.itemTypes)
	return out
}

// RuleInfo is a MIME prefix rule as shown to clients. The fallback has an
// empty prefix.
type RuleInfo struct {
	Prefix string `json:"prefix"`
	Classification
}

// Rules lists the MIME rules in match order followed by the fallback
func (c *Catalog) Rules() []RuleInfo {
	out := make([]RuleInfo, 0, len(c.rules)+1)
	for _, r := range c.rules {
		out = append(out, RuleInfo{Prefix: r.Prefix, Classification: r.Classification})
	}
	return append(out, RuleInfo{Classification: c.fallback})
}
