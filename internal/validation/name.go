package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxAlbumName = 120
	maxUsername  = 100
	maxBio       = 1000
)

// ValidateAlbumName returns the trimmed name or an error when it is blank or too long.
func ValidateAlbumName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return "", errors.New("album name is required")
	}

	if utf8.RuneCountInString(trimmed) > maxAlbumName {
		return "", fmt.Errorf("album name is too long (max %d characters)", maxAlbumName)
	}

	return trimmed, nil
}

// ValidateProfile checks the optional profile fields; nil means "not provided".
func ValidateProfile(username, bio *string) error {
	if username != nil && utf8.RuneCountInString(*username) > maxUsername {
		return fmt.Errorf("username is too long (max %d characters)", maxUsername)
	}
	if bio != nil && utf8.RuneCountInString(*bio) > maxBio {
		return fmt.Errorf("bio is too long (max %d characters)", maxBio)
	}
	return nil
}
