package contentgendomain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	videodomain "github.com/Black-And-White-Club/reelboard/app/modules/video/domain"
)

// ContentType selects what the generator writes.
type ContentType string

const (
	TypeTitle       ContentType = "title"
	TypeDescription ContentType = "description"
)

// MaxPromptLength bounds the prompt in characters.
const MaxPromptLength = 1000

var (
	ErrInvalidPrompt      = errors.New("prompt is required")
	ErrPromptTooLong      = fmt.Errorf("prompt must be at most %d characters", MaxPromptLength)
	ErrInvalidContentType = errors.New(`type must be "title" or "description"`)
)

// Request is the body of a generation call.
type Request struct {
	Prompt string      `json:"prompt"`
	Type   ContentType `json:"type"`
}

// Response mirrors the wire shape {success, result, type} / {success:false, error}.
type Response struct {
	Success bool        `json:"success"`
	Result  string      `json:"result,omitempty"`
	Type    ContentType `json:"type,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Generated is the successful outcome of a generation call.
type Generated struct {
	Result string
	Type   ContentType
}

// Validate checks the request before any remote call.
func (r Request) Validate() error {
	prompt := strings.TrimSpace(r.Prompt)
	if prompt == "" {
		return ErrInvalidPrompt
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return ErrPromptTooLong
	}
	if r.Type != TypeTitle && r.Type != TypeDescription {
		return ErrInvalidContentType
	}
	return nil
}

// MaxResultLength matches the limits a video upload enforces.
func (t ContentType) MaxResultLength() int {
	if t == TypeTitle {
		return videodomain.MaxTitleLength
	}
	return videodomain.MaxDescriptionLength
}

// Normalize trims whitespace and wrapping quotes and cuts the text to the
// type's maximum length.
func Normalize(text string, t ContentType) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	if t == TypeTitle {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
	}

	limit := t.MaxResultLength()
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit]))
}
