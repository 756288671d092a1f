package textmatch

import "testing"

func TestClosest_ExactMatch(t *testing.T) {
	candidates := []string{"beatles", "beach boys", "bee gees"}

	got, ok := Closest("Beatles", candidates, DefaultThreshold)
	if !ok || got != "beatles" {
		t.Errorf("Closest(Beatles) = %q, %v, want beatles, true", got, ok)
	}
}

func TestClosest_SubstringBothDirections(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		candidates []string
		expected   string
	}{
		{
			name:       "query inside candidate",
			query:      "beatle",
			candidates: []string{"rolling stones", "beatles"},
			expected:   "beatles",
		},
		{
			name:       "candidate inside query",
			query:      "the beatles band",
			candidates: []string{"beatles"},
			expected:   "beatles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Closest(tt.query, tt.candidates, DefaultThreshold)
			if !ok || got != tt.expected {
				t.Errorf("Closest(%q) = %q, %v, want %q, true", tt.query, got, ok, tt.expected)
			}
		})
	}
}

func TestClosest_FuzzyTypo(t *testing.T) {
	candidates := []string{"beach boys", "beatles", "blondie"}

	// One dropped letter still clears the default threshold.
	got, ok := Closest("beatls", candidates, DefaultThreshold)
	if !ok || got != "beatles" {
		t.Errorf("Closest(beatls) = %q, %v, want beatles, true", got, ok)
	}

	// The same typo is rejected at the stricter artist threshold.
	if _, ok := Closest("beatls", candidates, 0.85); ok {
		t.Error("Closest(beatls) at 0.85 should not match")
	}
}

func TestClosest_NoMatch(t *testing.T) {
	if got, ok := Closest("xyz", []string{"abc", "def"}, 0.5); ok {
		t.Errorf("Closest(xyz) = %q, want no match", got)
	}
}

func TestClosest_EmptyInputs(t *testing.T) {
	if _, ok := Closest("", []string{"abc"}, DefaultThreshold); ok {
		t.Error("empty query should not match")
	}
	if _, ok := Closest("abc", nil, DefaultThreshold); ok {
		t.Error("empty candidate list should not match")
	}
}

func TestClosest_TieKeepsFirst(t *testing.T) {
	// Both candidates are a single edit away; the first in list order wins.
	got, ok := Closest("cxt", []string{"cat", "cut"}, 0.1)
	if !ok || got != "cat" {
		t.Errorf("Closest(cxt) = %q, %v, want cat (first candidate), true", got, ok)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		lo   float64
		hi   float64
	}{
		{"identical", "beatles", "beatles", 1.0, 1.0},
		{"empty left", "", "beatles", 0.0, 0.0},
		{"empty right", "beatles", "", 0.0, 0.0},
		{"one edit", "beatls", "beatles", 0.75, 0.80},
		{"distant", "kitten", "sitting", 0.40, 0.50},
		{"unrelated", "xyz", "beatles", 0.0, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got < tt.lo || got > tt.hi {
				t.Errorf("Similarity(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.lo, tt.hi)
			}
		})
	}
}

func TestSimilarity_SingleCharacter(t *testing.T) {
	// Single-letter strings fall back to the one-element bigram set.
	if got := Similarity("a", "a"); got != 1.0 {
		t.Errorf("Similarity(a, a) = %v, want 1.0", got)
	}
	if got := Similarity("a", "b"); got >= 0.5 {
		t.Errorf("Similarity(a, b) = %v, want < 0.5", got)
	}
}

func BenchmarkClosest(b *testing.B) {
	candidates := []string{
		"beatles", "rolling stones", "led zeppelin", "pink floyd",
		"queen", "fleetwood mac", "the who", "black sabbath",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Closest("beatls", candidates, DefaultThreshold)
	}
}
