package errors

import (
	"strings"
	"unicode"
)

// ValidatePersonName validates the one required form field. The editor never
// rejects input beyond requiring a name, so validation here is minimal:
// non-blank, no control characters, bounded length.
func ValidatePersonName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidPerson, "name is required")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPerson, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPerson, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePersonID validates a person id for use in store queries and blob
// object keys. Ids are store-assigned, so this guards against corrupted or
// hostile input reaching key derivation.
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPerson, "person id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidPerson, "person id too long (max 128 characters)")
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidPerson, "person id contains invalid characters: %q", pattern)
		}
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPerson, "person id contains invalid characters")
		}
	}
	return nil
}

// ValidateYear validates a birth/death year field. Years are free text
// ("1944", "ca. 1890", "unknown"), so only length and control characters are
// checked.
func ValidateYear(year string) error {
	if year == "" {
		return nil
	}

	if len(year) > 64 {
		return New(ErrCodeInvalidInput, "year too long (max 64 characters)")
	}

	for _, r := range year {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "year contains invalid control characters")
		}
	}
	return nil
}

// imageExtensions lists the photo file extensions the blob store accepts.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateImageExtension validates a photo filename extension (including the
// leading dot, case-insensitive).
func ValidateImageExtension(ext string) error {
	if ext == "" {
		return New(ErrCodeInvalidImage, "image filename has no extension")
	}
	if !imageExtensions[strings.ToLower(ext)] {
		return New(ErrCodeInvalidImage, "unsupported image extension: %q", ext)
	}
	return nil
}
