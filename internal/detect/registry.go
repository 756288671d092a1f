package detect

import (
	"fmt"
	"sync"

	"github.com/normanking/thalamus/internal/detect/lexicon"
)

// Registry tracks detector instances and their enabled state, preserving
// registration order so selection passes and listings are deterministic.
// Safe for concurrent use; toggling happens at runtime via the CLI and
// the console.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*registryEntry
}

type registryEntry struct {
	detector Detector
	enabled  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

// Register adds a detector, enabled, under its own name.
func (r *Registry) Register(d Detector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := d.Name()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("detector %q already registered", name)
	}
	r.entries[name] = &registryEntry{detector: d, enabled: true}
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register for static detector sets where a duplicate
// name is a programming error.
func (r *Registry) MustRegister(d Detector) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Enable turns a detector back on.
func (r *Registry) Enable(name string) error {
	return r.setEnabled(name, true)
}

// Disable turns a detector off; it no longer runs during selection.
func (r *Registry) Disable(name string) error {
	return r.setEnabled(name, false)
}

func (r *Registry) setEnabled(name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[name]
	if !exists {
		return fmt.Errorf("unknown detector %q", name)
	}
	entry.enabled = enabled
	return nil
}

// IsEnabled reports whether a registered detector is currently enabled.
// Unknown names report false.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	return exists && entry.enabled
}

// Enabled returns the enabled detectors in registration order.
func (r *Registry) Enabled() []Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	detectors := make([]Detector, 0, len(r.order))
	for _, name := range r.order {
		if entry := r.entries[name]; entry.enabled {
			detectors = append(detectors, entry.detector)
		}
	}
	return detectors
}

// Names returns every registered detector name in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// States maps each registered detector name to its enabled flag.
func (r *Registry) States() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make(map[string]bool, len(r.entries))
	for name, entry := range r.entries {
		states[name] = entry.enabled
	}
	return states
}

// DefaultRegistry builds the standard detector set. High-signal domains
// register first so equal-confidence ties resolve toward them. A nil
// lexicon means the built-in music lists.
func DefaultRegistry(lex *lexicon.Music) *Registry {
	r := NewRegistry()
	for _, d := range []Detector{
		NewMusic(lex),
		&EmailDetector{},
		&AutomationDetector{},
		&LightsDetector{},
		&CalendarDetector{},
		&WeatherDetector{},
		&DocumentsDetector{},
		&VisionDetector{},
		&TimersDetector{},
		&WebDetector{},
		&ContactsDetector{},
		&HabitsDetector{},
		&NotesDetector{},
		&SystemDetector{},
		&UtilitiesDetector{},
		&MediaLibraryDetector{},
		&LocationsDetector{},
	} {
		r.MustRegister(d)
	}
	return r
}
