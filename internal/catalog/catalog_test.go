package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EmbeddedCatalog(t *testing.T) {
	c := Default()

	assert.Len(t, c.Emotions, 6)
	assert.Len(t, c.Lighting, 6)
	assert.Len(t, c.Compositions, 5)
	assert.Len(t, c.CameraAngles, 6)
	assert.Len(t, c.ArtStyles, 6)
	assert.Len(t, c.Languages, 6)

	ratios := make([]string, 0, len(c.AspectRatios))
	for _, r := range c.AspectRatios {
		ratios = append(ratios, r.Name)
	}
	assert.Equal(t, []string{"16:9", "9:16", "1:1", "4:3"}, ratios)

	defaults := c.Defaults()
	assert.Equal(t, "Shocked / Surprised", defaults[KindEmotion])
	assert.Equal(t, "High Contrast (Punchy)", defaults[KindLighting])
	assert.Equal(t, "Close-up Face + Background Object", defaults[KindComposition])
	assert.Equal(t, "Wide Angle (16mm)", defaults[KindCameraAngle])
	assert.Equal(t, "Hyper-Realistic (Photo)", defaults[KindArtStyle])
	assert.Equal(t, "16:9", defaults[KindAspectRatio])
	assert.Equal(t, "English", defaults[KindLanguage])
}

func TestParse_Rejects(t *testing.T) {
	t.Run("empty group", func(t *testing.T) {
		_, err := Parse([]byte("emotions: []\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "emotion")
	})

	t.Run("duplicate key", func(t *testing.T) {
		doc := `
emotions: [{key: a, name: A}, {key: A, name: B}]
lighting: [{key: a, name: A}]
compositions: [{key: a, name: A}]
camera_angles: [{key: a, name: A}]
art_styles: [{key: a, name: A}]
aspect_ratios: [{key: "1:1", name: "1:1"}]
languages: [{key: en, name: English}]
`
		_, err := Parse([]byte(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate key")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Parse([]byte("emotions: [unclosed"))
		require.Error(t, err)
	})
}

func TestResolve(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		kind    Kind
		in      string
		want    string
		matched bool
	}{
		{"empty uses default", KindEmotion, "  ", "Shocked / Surprised", true},
		{"exact name any case", KindLanguage, "SPANISH", "Spanish", true},
		{"key", KindLanguage, "fr", "French", true},
		{"key with underscore", KindLighting, "golden_hour", "Golden Hour (Warm)", true},
		{"name segment", KindLighting, "cyberpunk", "Neon / Cyberpunk", true},
		{"prefix", KindComposition, "split", "Split Screen (Before/After)", true},
		{"typo", KindEmotion, "shokced", "Shocked / Surprised", true},
		{"typo in segment", KindCameraAngle, "telefoto", "Telephoto / Zoom (85mm)", true},
		{"custom text kept", KindArtStyle, "Watercolor", "Watercolor", false},
		{"short word not fuzzed", KindEmotion, "Mad", "Mad", false},
		{"short word not fuzzed 2", KindEmotion, "Bad", "Bad", false},
		{"different language kept", KindLanguage, "Hinglish", "Hinglish", false},
		{"longer language kept", KindLanguage, "Spanglish", "Spanglish", false},
		{"aspect ratio separators", KindAspectRatio, "9x16", "9:16", true},
		{"aspect ratio unknown", KindAspectRatio, "4:5", "4:5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Resolve(tt.kind, tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, ok)
		})
	}
}

func TestResolveAspectRatio(t *testing.T) {
	c := Default()

	got, err := c.ResolveAspectRatio(" 16 / 9 ")
	require.NoError(t, err)
	assert.Equal(t, "16:9", got)

	for _, bad := range []string{"", "wide", "0:1", "21:9", "16:"} {
		_, err := c.ResolveAspectRatio(bad)
		assert.ErrorIs(t, err, ErrInvalidAspectRatio, bad)
	}
}

func TestTypoDistance(t *testing.T) {
	tests := []struct {
		in, alias string
		ok        bool
	}{
		{"shokced", "shocked", true},
		{"telefoto", "telephoto", true},
		{"mad", "sad", false},
		{"hinglish", "english", false},
		{"spanglish", "spanish", false},
		{"frustratd", "frustrated", true},
	}
	for _, tt := range tests {
		_, ok := typoDistance(tt.in, tt.alias)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}
