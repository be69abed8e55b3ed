package videodomain

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
	MaxUsernameLength    = 40
)

var (
	ErrInvalidTitle         = errors.New("title is required")
	ErrTitleTooLong         = fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	ErrDescriptionTooLong   = fmt.Errorf("description must be at most %d characters", MaxDescriptionLength)
	ErrUnsupportedExtension = errors.New("unsupported video file type")
	ErrFileTooLarge         = errors.New("video file is too large")
	ErrEmptyFile            = errors.New("video file is empty")
	ErrInvalidVideoURL      = errors.New("video url must be an absolute http(s) url")
	ErrInvalidUsername      = fmt.Errorf("username must be 1-%d characters", MaxUsernameLength)
)

// AllowedExtensions lists the accepted video container formats.
var AllowedExtensions = []string{".mp4", ".mov", ".webm", ".m4v"}

// ValidationError collects every problem found with an upload.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.Errs }

// ValidateUpload checks title, description, extension, size and URL before
// anything is written. maxBytes <= 0 disables the size ceiling.
func ValidateUpload(u Upload, maxBytes int64) error {
	var errs []error

	title := strings.TrimSpace(u.Title)
	switch {
	case title == "":
		errs = append(errs, ErrInvalidTitle)
	case utf8.RuneCountInString(title) > MaxTitleLength:
		errs = append(errs, ErrTitleTooLong)
	}

	if utf8.RuneCountInString(u.Description) > MaxDescriptionLength {
		errs = append(errs, ErrDescriptionTooLong)
	}

	if !HasAllowedExtension(u.FileName) {
		errs = append(errs, ErrUnsupportedExtension)
	}

	switch {
	case u.SizeBytes <= 0:
		errs = append(errs, ErrEmptyFile)
	case maxBytes > 0 && u.SizeBytes > maxBytes:
		errs = append(errs, ErrFileTooLarge)
	}

	if !isHTTPURL(u.VideoURL) {
		errs = append(errs, ErrInvalidVideoURL)
	}

	if len(errs) > 0 {
		return &ValidationError{Errs: errs}
	}
	return nil
}

// HasAllowedExtension reports whether name ends in a supported extension, ignoring case.
func HasAllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ValidateProfile checks a profile update.
func ValidateProfile(p Profile) error {
	n := utf8.RuneCountInString(strings.TrimSpace(p.Username))
	if n == 0 || n > MaxUsernameLength {
		return &ValidationError{Errs: []error{ErrInvalidUsername}}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
