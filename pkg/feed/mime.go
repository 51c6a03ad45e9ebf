package feed

import "strings"

// MimeType guesses an image MIME type from the URL's trailing extension.
// The content is never inspected; a URL whose extension is followed by a query
// string or fragment falls back to image/jpeg like any unknown extension.
func MimeType(imageURL string) string {
	lower := strings.ToLower(imageURL)

	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
