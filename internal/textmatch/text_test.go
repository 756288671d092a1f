package textmatch

import (
	"reflect"
	"testing"
)

func TestNormalizeArtist(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"leading the", "The Beatles", "beatles"},
		{"ampersand", "Simon & Garfunkel", "simon and garfunkel"},
		{"plus sign", "Florence + The Machine", "florence and the machine"},
		{"possessive", "Zager's Band", "zagers band"},
		{"hyphen separator", "Jay - Z", "jay z"},
		{"already plain", "queen", "queen"},
		{"whitespace", "  The Who  ", "who"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeArtist(tt.input); got != tt.expected {
				t.Errorf("NormalizeArtist(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestQuotedText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "double quotes",
			input:    `send email with subject "Meeting tomorrow"`,
			expected: []string{"Meeting tomorrow"},
		},
		{
			name:     "single quotes",
			input:    "create a note saying 'buy milk'",
			expected: []string{"buy milk"},
		},
		{
			name:     "double before single",
			input:    `subject "Status" body 'all good'`,
			expected: []string{"Status", "all good"},
		},
		{
			name:     "no quotes",
			input:    "play some jazz",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuotedText(tt.input)
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("QuotedText(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHasTimeReference(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"remind me tomorrow at 3pm", true},
		{"schedule a meeting next week", true},
		{"what do i have on monday", true},
		{"dinner at 7:00 tonight", true},
		{"hello world", false},
		{"play some music", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := HasTimeReference(tt.input); got != tt.expected {
				t.Errorf("HasTimeReference(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
