package validation

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// TakenAtLayout is the wire format for capture times.
const TakenAtLayout = "2006-01-02 15:04:05"

// ImageExtensions is the allow-list for profile pictures.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateImageExtension checks the extension case-insensitively against ImageExtensions.
func ValidateImageExtension(filename string) error {
	if filename == "" {
		return errors.New("no file selected")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !ImageExtensions[ext] {
		if ext == "" {
			return errors.New("file has no extension (allowed: jpg, jpeg, png)")
		}
		return fmt.Errorf("invalid file extension: %s (allowed: jpg, jpeg, png)", ext)
	}

	return nil
}

// SanitizeFilename reduces a client-supplied name to a safe base name.
// Both slash styles are treated as separators and the result is NFC-normalized
// so the same name typed on different systems maps to one storage name.
func SanitizeFilename(filename string) (string, error) {
	name := strings.ReplaceAll(filename, `\`, "/")
	name = path.Base(strings.TrimSpace(name))
	name = norm.NFC.String(name)

	if name == "" || name == "." || name == ".." || name == "/" {
		return "", errors.New("invalid filename")
	}
	if strings.ContainsRune(name, 0) {
		return "", errors.New("invalid filename")
	}

	return name, nil
}

// ParseTakenAt parses an optional capture time; empty input yields nil.
func ParseTakenAt(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(TakenAtLayout, value)
	if err != nil {
		return nil, fmt.Errorf("taken_at must look like %q", TakenAtLayout)
	}
	return &t, nil
}
