package fetcher

import "testing"

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"punctuation removed", "Breaking News! (Live) #42", "Breaking News Live 42"},
		{"periods kept", "Ep. 12 v1.5", "Ep. 12 v1.5"},
		{"surrounding whitespace trimmed", "  hello world \t", "hello world"},
		{"slashes removed", "a/b\\c:d", "abcd"},
		{"non ascii removed", "Café déjà vu", "Caf dj vu"},
		{"only symbols", "!!!???", ""},
		{"emoji removed", "Podcast 🎙️ #7", "Podcast  7"},
		{"inner whitespace kept", "a\tb\nc", "a\tb\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.input); got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
