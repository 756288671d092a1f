package detect

import (
	"strings"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/detect/lexicon"
	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/textmatch"
)

// artistMatchThreshold is stricter than the general fuzzy threshold;
// artist names are short and a loose match misroutes badly.
const artistMatchThreshold = 0.85

// mainstreamGenreCount is the size of the mainstream tier at the head
// of the genre list.
const mainstreamGenreCount = 20

// MusicDetector proposes play, control, and visualizer intents. It is
// the only detector with a configurable lexicon.
type MusicDetector struct {
	lex *lexicon.Music
}

// NewMusic builds a music detector. A nil lexicon means the built-in
// lists.
func NewMusic(lex *lexicon.Music) *MusicDetector {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &MusicDetector{lex: lex}
}

func (d *MusicDetector) Name() string { return "music" }

func (d *MusicDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	// "play a game", "role play" and friends never mean playback.
	if containsAny(lower, d.lex.NonMusicPlayPhrases) {
		return nil
	}

	var intents []intent.Intent
	if in, ok := d.detectPlay(lower, ctx); ok {
		intents = append(intents, in)
	}
	if in, ok := d.detectControl(lower, ctx); ok {
		intents = append(intents, in)
	}
	if in, ok := d.detectVisualizer(lower); ok {
		intents = append(intents, in)
	}
	return intents
}

func (d *MusicDetector) detectPlay(lower string, ctx *convo.Context) (intent.Intent, bool) {
	hasArtist := containsAny(lower, d.lex.Artists)
	hasGenre := containsAny(lower, d.lex.Genres)
	hasPlay := containsAny(lower, d.lex.PlaySignals)
	hasMusic := containsAny(lower, d.lex.MusicNouns)

	// No exact artist but a play verb: try fuzzy matching for typos.
	var matchedArtist string
	if !hasArtist && hasPlay {
		matchedArtist = d.fuzzyArtist(lower)
		if matchedArtist != "" {
			hasArtist = true
		}
	}

	confidence, reasons := d.playConfidence(lower, hasPlay, hasArtist, hasGenre, hasMusic, matchedArtist, ctx)
	if confidence <= 0 {
		return intent.Intent{}, false
	}

	query := d.musicQuery(lower, matchedArtist)
	if query == "" {
		query = lower
	}

	return intent.Intent{
		Tool:       intent.ToolPlayMusic,
		Confidence: confidence,
		Priority:   intent.PriorityHigh,
		Reason:     strings.Join(reasons, " | "),
		Params:     intent.MusicQuery{Query: query},
	}, true
}

func (d *MusicDetector) playConfidence(
	lower string,
	hasPlay, hasArtist, hasGenre, hasMusic bool,
	matchedArtist string,
	ctx *convo.Context,
) (float64, []string) {
	var confidence float64
	var reasons []string

	switch {
	// Direct "play [artist]" or "play [genre]".
	case hasPlay && (hasArtist || hasGenre):
		confidence = 0.98
		if matchedArtist != "" {
			reasons = append(reasons, "play + fuzzy matched artist: "+matchedArtist)
		} else {
			reasons = append(reasons, "play + artist/genre detected")
		}

	// "play music" and variants.
	case hasPlay && hasMusic:
		switch {
		case containsAny(lower, d.lex.InfoRequestWords):
			confidence = 0.2
			reasons = append(reasons, "play+music but info request detected")
		case containsAny(lower, d.lex.NonMusicContextWords):
			confidence = 0.25
			reasons = append(reasons, "play detected but non-music context")
		default:
			confidence = 0.95
			reasons = append(reasons, "clear play + music intent")
		}

	// Bare play verb leaning on conversation history.
	case hasPlay && ctx.Music.Seen:
		if ctx.Music.Recency >= 3 {
			confidence = 0.50
			reasons = append(reasons, "play verb with recent music context")
		} else {
			confidence = 0.30
			reasons = append(reasons, "play verb but music context too old")
		}

	// Music noun with a play-ish word somewhere.
	case hasMusic && containsAny(lower, []string{"play", "start", "queue"}):
		if ctx.Music.Seen || containsAny(lower, d.lex.Genres[:min(mainstreamGenreCount, len(d.lex.Genres))]) {
			confidence = 0.60
			reasons = append(reasons, "music noun with play indicators + context")
		} else {
			confidence = 0.35
			reasons = append(reasons, "music noun + play but no context")
		}

	case strings.Contains(lower, "put on") && (hasArtist || hasGenre || hasMusic):
		confidence = 0.92
		reasons = append(reasons, "put on + music/artist/genre")

	// "some beatles", "a little coltrane".
	case hasArtist && containsAny(lower, []string{"some", "little", "bit of"}):
		confidence = 0.85
		reasons = append(reasons, "artist + quantity word suggests play intent")

	// Artist name alone; could be an info request.
	case hasArtist && !hasPlay:
		if containsAny(lower, []string{"who", "what", "when", "where", "how", "tell me"}) {
			confidence = 0.2
			reasons = append(reasons, "artist mentioned but seems like info request")
		} else if ctx.Music.Seen {
			confidence = 0.7
			reasons = append(reasons, "artist mentioned with music context")
		}
	}

	return confidence, reasons
}

// fuzzyArtist strips the play signals out of the message and slides a
// 1-3 word window over what remains, fuzzy matching each candidate
// phrase against the artist list.
func (d *MusicDetector) fuzzyArtist(lower string) string {
	stripped := lower
	for _, signal := range d.lex.PlaySignals {
		stripped = strings.ReplaceAll(stripped, signal, " ")
	}

	var words []string
	for _, w := range strings.Fields(stripped) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}

	for i := range words {
		for _, n := range []int{1, 2, 3} {
			if i+n > len(words) {
				continue
			}
			phrase := strings.Join(words[i:i+n], " ")
			if len(phrase) < 4 {
				continue
			}
			if match, ok := textmatch.Closest(phrase, d.lex.Artists, artistMatchThreshold); ok {
				return match
			}
		}
	}
	return ""
}

// musicQuery is the fuzzy-matched artist when there is one, otherwise
// the message with the play signals removed.
func (d *MusicDetector) musicQuery(lower, matchedArtist string) string {
	if matchedArtist != "" {
		return matchedArtist
	}

	query := lower
	for _, signal := range d.lex.PlaySignals {
		query = strings.TrimSpace(strings.ReplaceAll(query, signal, ""))
	}
	return query
}

func (d *MusicDetector) detectControl(lower string, ctx *convo.Context) (intent.Intent, bool) {
	if !containsAny(lower, d.lex.ControlSignals) {
		return intent.Intent{}, false
	}

	confidence := 0.95
	reasons := []string{"explicit control keyword"}

	if !ctx.Music.Seen && ctx.Music.Recency < 3 {
		confidence = 0.75
		reasons = append(reasons, "reduced: no recent music context")
	}

	return intent.Intent{
		Tool:       intent.ToolControlMusic,
		Confidence: confidence,
		Priority:   intent.PriorityHigh,
		Reason:     strings.Join(reasons, " | "),
		Params:     intent.MusicControl{Action: controlAction(lower)},
	}, true
}

func controlAction(lower string) string {
	switch {
	case strings.Contains(lower, "skip") || strings.Contains(lower, "next"):
		return "next"
	case strings.Contains(lower, "previous") || strings.Contains(lower, "back"):
		return "previous"
	case strings.Contains(lower, "resume"):
		return "resume"
	case strings.Contains(lower, "stop"):
		return "pause"
	case strings.Contains(lower, "volume up"), strings.Contains(lower, "louder"), strings.Contains(lower, "turn it up"):
		return "volume_up"
	case strings.Contains(lower, "volume down"), strings.Contains(lower, "quieter"),
		strings.Contains(lower, "softer"), strings.Contains(lower, "turn it down"):
		return "volume_down"
	case strings.Contains(lower, "mute"):
		return "mute"
	default:
		return "pause"
	}
}

func (d *MusicDetector) detectVisualizer(lower string) (intent.Intent, bool) {
	if !containsAny(lower, d.lex.VisualizerSignals) {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolMusicVisualizer,
		Confidence: 0.95,
		Priority:   intent.PriorityHigh,
		Reason:     "explicit visualizer keywords",
		Params: intent.Visualizer{
			Action:   "start",
			Duration: 300,
			Style:    "party",
		},
	}, true
}
