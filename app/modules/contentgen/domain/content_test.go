package contentgendomain

import (
	"errors"
	"strings"
	"testing"

	videodomain "github.com/Black-And-White-Club/reelboard/app/modules/video/domain"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{name: "title ok", req: Request{Prompt: "skate trick at sunset", Type: TypeTitle}},
		{name: "description ok", req: Request{Prompt: "skate trick", Type: TypeDescription}},
		{name: "empty prompt", req: Request{Prompt: "  ", Type: TypeTitle}, want: ErrInvalidPrompt},
		{name: "prompt too long", req: Request{Prompt: strings.Repeat("a", MaxPromptLength+1), Type: TypeTitle}, want: ErrPromptTooLong},
		{name: "unknown type", req: Request{Prompt: "x", Type: "tagline"}, want: ErrInvalidContentType},
		{name: "missing type", req: Request{Prompt: "x"}, want: ErrInvalidContentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		t    ContentType
		want string
	}{
		{name: "trims whitespace", in: "  Kickflip  \n", t: TypeTitle, want: "Kickflip"},
		{name: "strips wrapping quotes", in: `"Golden hour ollie"`, t: TypeTitle, want: "Golden hour ollie"},
		{name: "title keeps first line", in: "Line one\nLine two", t: TypeTitle, want: "Line one"},
		{name: "description keeps lines", in: "Line one\nLine two", t: TypeDescription, want: "Line one\nLine two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in, tt.t); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Truncates(t *testing.T) {
	got := Normalize(strings.Repeat("é", videodomain.MaxTitleLength+10), TypeTitle)
	if n := len([]rune(got)); n != videodomain.MaxTitleLength {
		t.Errorf("got %d runes, want %d", n, videodomain.MaxTitleLength)
	}
}
