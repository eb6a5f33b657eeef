package recommendation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// VariantDescriptor is the size/colour pair recovered from an order line's
// free-text variant column.
type VariantDescriptor struct {
	Size  string
	Color string
}

func (d VariantDescriptor) empty() bool {
	return d.Size == "" && d.Color == ""
}

// ParseVariantDescriptor reads a checkout variant descriptor. JSON objects are
// read structurally; anything else goes through the free-text fallback. ok is
// false when neither stage recovered a size or a colour.
func ParseVariantDescriptor(raw string) (VariantDescriptor, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return VariantDescriptor{}, false
	}

	d, structured := parseStructuredDescriptor(raw)
	if !structured {
		d = parseFreeTextDescriptor(raw)
	}

	return d, !d.empty()
}

// parseStructuredDescriptor handles {"size":"75B","color":"Đen"} and the key
// spellings older checkouts wrote. A valid JSON object is authoritative even
// when it carries neither key.
func parseStructuredDescriptor(raw string) (VariantDescriptor, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return VariantDescriptor{}, false
	}

	return VariantDescriptor{
		Size:  firstField(obj, "size", "Size"),
		Color: firstField(obj, "color", "colorName", "Color"),
	}, true
}

var (
	sizePattern  = regexp.MustCompile(`(?i)size[:\s]*([^,]+)`)
	colorPattern = regexp.MustCompile(`(?i)(?:color|màu)[:\s]*([^,]+)`)
)

// parseFreeTextDescriptor handles "Size: 75B, Màu: Đen" style strings.
func parseFreeTextDescriptor(raw string) VariantDescriptor {
	var d VariantDescriptor
	if m := sizePattern.FindStringSubmatch(raw); m != nil {
		d.Size = strings.TrimSpace(m[1])
	}
	if m := colorPattern.FindStringSubmatch(raw); m != nil {
		d.Color = strings.TrimSpace(m[1])
	}
	return d
}

func firstField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			if v != 0 {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}
	return ""
}
