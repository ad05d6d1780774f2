package gemini

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

type ImageInput struct {
	Data     []byte
	MimeType string
}

type TextOptions struct {
	// Temperature is ignored when zero.
	Temperature float32
}

var ErrInvalidDataURL = errors.New("invalid image data URL")

var dataURLRegex = regexp.MustCompile(`^data:([^;,]+);base64,`)

// ParseDataURL decodes "data:<mime>;base64,<payload>". A bare base64 payload is
// accepted too and gets fallbackMime.
func ParseDataURL(value, fallbackMime string) (ImageInput, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ImageInput{}, ErrInvalidDataURL
	}

	mime := fallbackMime
	if matches := dataURLRegex.FindStringSubmatch(value); len(matches) == 2 {
		mime = strings.ToLower(matches[1])
	} else if strings.HasPrefix(value, "data:") {
		return ImageInput{}, ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(stripDataURLPrefix(value))
	if err != nil {
		return ImageInput{}, errors.Join(ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return ImageInput{}, ErrInvalidDataURL
	}

	return ImageInput{Data: data, MimeType: mime}, nil
}

func stripDataURLPrefix(value string) string {
	if !strings.HasPrefix(value, "data:") {
		return value
	}
	if idx := strings.IndexByte(value, ','); idx >= 0 {
		return value[idx+1:]
	}
	return value
}
