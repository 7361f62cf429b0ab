package validation

import "strings"

// ValidateProgressEntry requires non-blank content. There is no length cap.
func ValidateProgressEntry(content string) (string, FieldErrors) {
	if strings.TrimSpace(content) == "" {
		return "", FieldErrors{"content": {"Content is required"}}
	}
	return content, nil
}
