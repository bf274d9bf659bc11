package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	unsafeChars    = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// SanitizeFilename makes a display name safe to embed in a URL path segment.
// Spaces become underscores, anything outside [a-zA-Z0-9._-] is dropped and
// runs of underscores collapse. The extension is preserved.
func SanitizeFilename(filename string) string {
	name := filename
	ext := ""
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		name = filename[:idx]
		ext = filename[idx+1:]
	}

	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = underscoreRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if ext != "" {
		ext = unsafeChars.ReplaceAllString(ext, "")
		return name + "." + ext
	}
	return name
}

// ReadableSize renders a byte count as a human readable label ("1.25 GB").
func ReadableSize(sizeBytes int64) string {
	if sizeBytes == 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(sizeBytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}
