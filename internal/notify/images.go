package notify

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// photoFor turns a stored design-image reference into a sendable payload.
// Inline data URLs are decoded to binary so the photo survives with full
// quality; anything else is treated as a plain URL and passed through.
func photoFor(image string) (Photo, error) {
	if !strings.HasPrefix(image, "data:image/") {
		return Photo{URL: image}, nil
	}

	idx := strings.Index(image, ",")
	if idx < 0 {
		return Photo{}, fmt.Errorf("malformed data url")
	}
	data, err := base64.StdEncoding.DecodeString(image[idx+1:])
	if err != nil {
		return Photo{}, fmt.Errorf("decode data url: %w", err)
	}
	return Photo{Data: data, Name: "design.jpg"}, nil
}
