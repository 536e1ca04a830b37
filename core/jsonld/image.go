package jsonld

import "strings"

// imageShape is the runtime shape of a schema.org image field.
type imageShape int

const (
	imageNone imageShape = iota
	imageURL
	imageObject
	imageList
)

func classifyImage(v any) imageShape {
	switch v.(type) {
	case string:
		return imageURL
	case map[string]any:
		return imageObject
	case []any:
		return imageList
	default:
		return imageNone
	}
}

// Image resolves an image field to a URL: a string is the URL, an
// ImageObject yields its url (or @id), and a list yields its first element.
func Image(v any) string {
	switch classifyImage(v) {
	case imageURL:
		return strings.TrimSpace(v.(string))
	case imageObject:
		obj := v.(map[string]any)
		if u := Image(obj["url"]); u != "" {
			return u
		}
		if id, ok := obj["@id"].(string); ok {
			return strings.TrimSpace(id)
		}
		return ""
	case imageList:
		list := v.([]any)
		if len(list) == 0 {
			return ""
		}
		return Image(list[0])
	default:
		return ""
	}
}
