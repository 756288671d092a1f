package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Overlay carries deployment-specific additions to the built-in lists,
// loaded from a small YAML file:
//
//	extra_artists:
//	  - khruangbin
//	extra_genres:
//	  - zamrock
type Overlay struct {
	ExtraArtists []string `yaml:"extra_artists"`
	ExtraGenres  []string `yaml:"extra_genres"`
}

// LoadOverlay reads an overlay file. A missing file is not an error; it
// yields an empty overlay so deployments without one start cleanly.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Overlay{}, nil
		}
		return nil, fmt.Errorf("failed to read lexicon overlay: %w", err)
	}

	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon overlay: %w", err)
	}
	return &overlay, nil
}

// Extend appends the overlay's entries, lowercased and deduplicated.
// New entries always land at the end so the positional tiers of the
// built-in lists stay intact.
func (m *Music) Extend(overlay *Overlay) {
	if overlay == nil {
		return
	}
	m.Artists = appendUnique(m.Artists, overlay.ExtraArtists)
	m.Genres = appendUnique(m.Genres, overlay.ExtraGenres)
}

func appendUnique(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v] = true
	}
	for _, v := range extra {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		base = append(base, v)
		seen[v] = true
	}
	return base
}
