package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFilename replaces every character outside [a-zA-Z0-9.-] with an underscore.
func SanitizeFilename(filename string) string {
	if filename == "" {
		return "upload"
	}
	return unsafeFilenameChars.ReplaceAllString(filename, "_")
}

// GenerateUploadName builds the storage name of an uploaded original: <uuid>-<sanitized name>.
func GenerateUploadName(filename string) string {
	return fmt.Sprintf("%s-%s", uuid.New().String(), SanitizeFilename(filename))
}

// GenerateOutputName builds the storage name of a transform output: <prefix>-<uuid>.<ext>.
func GenerateOutputName(prefix, ext string) string {
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s-%s.%s", prefix, uuid.New().String(), ext)
}

// NormalizeContentType lower-cases a media type, drops parameters and folds known aliases.
func NormalizeContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return "image/jpeg"
	}
	return ct
}

// DetectContentType sniffs the media type from the leading bytes of data.
func DetectContentType(data []byte) string {
	return NormalizeContentType(mimetype.Detect(data).String())
}

// IsValidImageType checks if content type is one of the allowed image types
func IsValidImageType(contentType string, allowed []string) bool {
	ct := NormalizeContentType(contentType)
	for _, validType := range allowed {
		if ct == NormalizeContentType(validType) {
			return true
		}
	}
	return false
}

// HumanSize renders a byte limit as whole megabytes when it divides evenly.
func HumanSize(n int64) string {
	const mb = 1024 * 1024
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
