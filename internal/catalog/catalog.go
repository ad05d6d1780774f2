package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var rawCatalog []byte

type Kind string

const (
	KindEmotion     Kind = "emotion"
	KindLighting    Kind = "lighting"
	KindComposition Kind = "composition"
	KindCameraAngle Kind = "camera_angle"
	KindArtStyle    Kind = "art_style"
	KindAspectRatio Kind = "aspect_ratio"
	KindLanguage    Kind = "language"
)

// Kinds lists every option group in form order.
var Kinds = []Kind{
	KindEmotion,
	KindLighting,
	KindComposition,
	KindCameraAngle,
	KindArtStyle,
	KindAspectRatio,
	KindLanguage,
}

var ErrInvalidAspectRatio = errors.New("unsupported aspect ratio")

type NamedOption struct {
	Key  string `yaml:"key" json:"key"`
	Name string `yaml:"name" json:"name"`
}

type Catalog struct {
	Emotions     []NamedOption `yaml:"emotions" json:"emotions"`
	Lighting     []NamedOption `yaml:"lighting" json:"lighting"`
	Compositions []NamedOption `yaml:"compositions" json:"compositions"`
	CameraAngles []NamedOption `yaml:"camera_angles" json:"cameraAngles"`
	ArtStyles    []NamedOption `yaml:"art_styles" json:"artStyles"`
	AspectRatios []NamedOption `yaml:"aspect_ratios" json:"aspectRatios"`
	Languages    []NamedOption `yaml:"languages" json:"languages"`
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(rawCatalog)
})

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for _, kind := range Kinds {
		if err := validateGroup(kind, c.Options(kind)); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func validateGroup(kind Kind, opts []NamedOption) error {
	if len(opts) == 0 {
		return fmt.Errorf("catalog group %s is empty", kind)
	}
	seen := make(map[string]struct{}, len(opts))
	for i, opt := range opts {
		if strings.TrimSpace(opt.Key) == "" || strings.TrimSpace(opt.Name) == "" {
			return fmt.Errorf("catalog group %s: entry %d needs key and name", kind, i)
		}
		k := strings.ToLower(opt.Key)
		if _, ok := seen[k]; ok {
			return fmt.Errorf("catalog group %s: duplicate key %q", kind, opt.Key)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func (c *Catalog) Options(kind Kind) []NamedOption {
	switch kind {
	case KindEmotion:
		return c.Emotions
	case KindLighting:
		return c.Lighting
	case KindComposition:
		return c.Compositions
	case KindCameraAngle:
		return c.CameraAngles
	case KindArtStyle:
		return c.ArtStyles
	case KindAspectRatio:
		return c.AspectRatios
	case KindLanguage:
		return c.Languages
	}
	return nil
}

// Default returns the display name of the first option in the group.
func (c *Catalog) Default(kind Kind) string {
	opts := c.Options(kind)
	if len(opts) == 0 {
		return ""
	}
	return opts[0].Name
}

func (c *Catalog) Defaults() map[Kind]string {
	out := make(map[Kind]string, len(Kinds))
	for _, kind := range Kinds {
		out[kind] = c.Default(kind)
	}
	return out
}
