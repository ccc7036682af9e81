package burstpick

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bep/imagemeta"
)

// CaptureMetadata holds the EXIF fields recorded for scored frames.
type CaptureMetadata struct {
	Make        string `json:"make,omitempty"`
	Model       string `json:"model,omitempty"`
	TakenAt     string `json:"taken_at,omitempty"` // EXIF DateTimeOriginal, "2006:01:02 15:04:05"
	Orientation int    `json:"orientation,omitempty"`
}

// Camera returns "Make Model" without duplicating a make already in the model name.
func (m *CaptureMetadata) Camera() string {
	if m == nil {
		return ""
	}
	if m.Make == "" || strings.HasPrefix(strings.ToLower(m.Model), strings.ToLower(m.Make)) {
		return m.Model
	}
	return strings.TrimSpace(m.Make + " " + m.Model)
}

// metadataFormats maps image.Decode format names to imagemeta formats.
var metadataFormats = map[string]imagemeta.ImageFormat{
	"jpeg": imagemeta.JPEG,
	"png":  imagemeta.PNG,
	"tiff": imagemeta.TIFF,
	"webp": imagemeta.WebP,
}

// wantedTags lists the EXIF tags we care about.
var wantedTags = map[string]bool{
	"Make":             true,
	"Model":            true,
	"DateTimeOriginal": true,
	"Orientation":      true,
}

// ExtractCaptureMetadata parses EXIF capture fields from raw image bytes.
// format is the name reported by image.Decode.
// Returns nil if the data is empty, the format carries no EXIF, or nothing
// was found. Graceful degradation: never returns an error.
func ExtractCaptureMetadata(data []byte, format string) *CaptureMetadata {
	if len(data) == 0 {
		return nil
	}
	imgFormat, ok := metadataFormats[format]
	if !ok {
		return nil
	}

	meta := &CaptureMetadata{}
	found := false

	_, err := imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: imgFormat,
		Sources:     imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Source == imagemeta.EXIF && wantedTags[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if handleEXIFTag(meta, ti) {
				found = true
			}
			return nil
		},
	})

	if err != nil || !found {
		return nil
	}

	return meta
}

// handleEXIFTag sets the CaptureMetadata field for an EXIF tag and reports
// whether a value was stored.
func handleEXIFTag(meta *CaptureMetadata, ti imagemeta.TagInfo) bool {
	if ti.Tag == "Orientation" {
		n, ok := tagValueInt(ti.Value)
		if ok {
			meta.Orientation = n
		}
		return ok
	}

	s := strings.TrimSpace(tagValueString(ti.Value))
	if s == "" {
		return false
	}
	switch ti.Tag {
	case "Make":
		meta.Make = s
	case "Model":
		meta.Model = s
	case "DateTimeOriginal":
		meta.TakenAt = s
	default:
		return false
	}
	return true
}

// tagValueString extracts a string from a tag value.
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
		return ""
	case fmt.Stringer:
		return val.String()
	default:
		return ""
	}
}

// tagValueInt extracts a small integer from the numeric types EXIF decoders produce.
func tagValueInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case uint16:
		return int(val), true
	case uint32:
		return int(val), true
	case int64:
		return int(val), true
	case uint8:
		return int(val), true
	default:
		return 0, false
	}
}
