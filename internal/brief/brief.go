package brief

import (
	"errors"
	"fmt"
	"strings"

	"thumbgenius/internal/catalog"
)

type TextMode string

const (
	TextModeManual TextMode = "manual"
	TextModeAI     TextMode = "ai"
)

var (
	ErrTopicRequired   = errors.New("topic is required")
	ErrInvalidTextMode = errors.New("text mode must be manual or ai")
)

// Brief is the flat record submitted by the form.
type Brief struct {
	Topic                  string   `json:"topic"`
	HasText                bool     `json:"hasText"`
	TextMode               TextMode `json:"textMode"`
	CustomText             string   `json:"customText"`
	Language               string   `json:"language"`
	Emotion                string   `json:"emotion"`
	Lighting               string   `json:"lighting"`
	Composition            string   `json:"composition"`
	CameraAngle            string   `json:"cameraAngle"`
	ArtStyle               string   `json:"artStyle"`
	AspectRatio            string   `json:"aspectRatio"`
	ReferenceImageAnalysis string   `json:"referenceImageAnalysis,omitempty"`
}

// Defaults mirrors the initial state of the form.
func Defaults(c *catalog.Catalog) Brief {
	return Brief{
		HasText:     true,
		TextMode:    TextModeAI,
		Language:    c.Default(catalog.KindLanguage),
		Emotion:     c.Default(catalog.KindEmotion),
		Lighting:    c.Default(catalog.KindLighting),
		Composition: c.Default(catalog.KindComposition),
		CameraAngle: c.Default(catalog.KindCameraAngle),
		ArtStyle:    c.Default(catalog.KindArtStyle),
		AspectRatio: c.Default(catalog.KindAspectRatio),
	}
}

// Normalize trims every field and resolves options against the catalog. It
// does not require a topic; Validate does.
func (b Brief) Normalize(c *catalog.Catalog) (Brief, error) {
	out := b
	out.Topic = strings.TrimSpace(b.Topic)
	out.CustomText = strings.TrimSpace(b.CustomText)
	out.ReferenceImageAnalysis = strings.TrimSpace(b.ReferenceImageAnalysis)

	switch TextMode(strings.ToLower(strings.TrimSpace(string(b.TextMode)))) {
	case "", TextModeAI:
		out.TextMode = TextModeAI
	case TextModeManual:
		out.TextMode = TextModeManual
	default:
		return Brief{}, fmt.Errorf("%w: %q", ErrInvalidTextMode, b.TextMode)
	}

	out.Language, _ = c.Resolve(catalog.KindLanguage, b.Language)
	out.Emotion, _ = c.Resolve(catalog.KindEmotion, b.Emotion)
	out.Lighting, _ = c.Resolve(catalog.KindLighting, b.Lighting)
	out.Composition, _ = c.Resolve(catalog.KindComposition, b.Composition)
	out.CameraAngle, _ = c.Resolve(catalog.KindCameraAngle, b.CameraAngle)
	out.ArtStyle, _ = c.Resolve(catalog.KindArtStyle, b.ArtStyle)

	if strings.TrimSpace(b.AspectRatio) == "" {
		out.AspectRatio = c.Default(catalog.KindAspectRatio)
	} else {
		ratio, err := c.ResolveAspectRatio(b.AspectRatio)
		if err != nil {
			return Brief{}, err
		}
		out.AspectRatio = ratio
	}

	return out, nil
}

func (b Brief) Validate() error {
	if strings.TrimSpace(b.Topic) == "" {
		return ErrTopicRequired
	}
	return nil
}

// WantsAIHook reports whether the hook must be requested from the model.
func (b Brief) WantsAIHook() bool {
	return b.HasText && b.TextMode == TextModeAI
}

// ManualHook returns the typed overlay text, or "" when text is off or AI mode.
func (b Brief) ManualHook() string {
	if !b.HasText || b.TextMode != TextModeManual {
		return ""
	}
	return b.CustomText
}
