package lexicon

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	content := `extra_artists:
  - Khruangbin
  - "  goat  "
extra_genres:
  - zamrock
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	overlay, err := LoadOverlay(path)
	if err != nil {
		t.Fatalf("LoadOverlay: %v", err)
	}
	if len(overlay.ExtraArtists) != 2 || len(overlay.ExtraGenres) != 1 {
		t.Errorf("overlay = %+v, want 2 artists and 1 genre", overlay)
	}
}

func TestLoadOverlay_MissingFile(t *testing.T) {
	overlay, err := LoadOverlay(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOverlay: %v", err)
	}
	if len(overlay.ExtraArtists) != 0 || len(overlay.ExtraGenres) != 0 {
		t.Errorf("overlay = %+v, want empty", overlay)
	}
}

func TestLoadOverlay_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	if err := os.WriteFile(path, []byte("extra_artists: {not a list"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOverlay(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestExtend(t *testing.T) {
	m := Default()
	baseArtists := len(m.Artists)
	baseGenres := len(m.Genres)

	m.Extend(&Overlay{
		ExtraArtists: []string{"Khruangbin", "  KHRUANGBIN  ", m.Artists[0], ""},
		ExtraGenres:  []string{"Zamrock"},
	})

	if got := len(m.Artists); got != baseArtists+1 {
		t.Errorf("artist count = %d, want %d", got, baseArtists+1)
	}
	if got := m.Artists[len(m.Artists)-1]; got != "khruangbin" {
		t.Errorf("appended artist = %q, want khruangbin at the end", got)
	}
	if got := len(m.Genres); got != baseGenres+1 {
		t.Errorf("genre count = %d, want %d", got, baseGenres+1)
	}
	if !slices.Contains(m.Genres, "zamrock") {
		t.Error("zamrock missing from genres")
	}
}

func TestExtend_NilOverlay(t *testing.T) {
	m := Default()
	base := len(m.Artists)
	m.Extend(nil)
	if len(m.Artists) != base {
		t.Error("nil overlay must not change the lists")
	}
}

func TestExtend_DoesNotShareBuiltins(t *testing.T) {
	a := Default()
	b := Default()
	a.Extend(&Overlay{ExtraArtists: []string{"khruangbin"}})

	if slices.Contains(b.Artists, "khruangbin") {
		t.Error("extending one instance leaked into another")
	}
}
