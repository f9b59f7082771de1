package security

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

const (
	// MaxFilenameLength defines the maximum allowed length for an uploaded filename
	MaxFilenameLength = 255
)

var (
	// ErrEmptyFilename is returned when nothing usable is left of an upload name
	ErrEmptyFilename = errors.New("filename is empty")
	// ErrFilenameTooLong is returned for names longer than MaxFilenameLength
	ErrFilenameTooLong = errors.New("filename too long")
)

// SanitizeFilename reduces a client-supplied upload name to a single safe path
// element. Directory components are dropped, so "../../etc/passwd" becomes
// "passwd". Characters outside isValidFilenameChar are replaced with '_'.
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(path.Base(name))

	// path.Base returns "." for empty input and "/" for all-slash input
	name = strings.TrimLeft(name, ".")
	if name == "" || name == "/" {
		return "", ErrEmptyFilename
	}

	if len(name) > MaxFilenameLength {
		return "", ErrFilenameTooLong
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, char := range name {
		if isValidFilenameChar(char) {
			b.WriteRune(char)
		} else {
			b.WriteRune('_')
		}
	}

	return b.String(), nil
}

// isValidFilenameChar checks if a character is safe inside a stored filename
func isValidFilenameChar(char rune) bool {
	return unicode.IsLetter(char) || unicode.IsNumber(char) ||
		char == ' ' || char == '-' || char == '_' || char == '.' ||
		char == '(' || char == ')' || char == '+'
}
