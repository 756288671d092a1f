package detect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
)

// LightsDetector proposes light-control intents. Its main job beyond
// keyword matching is telling the noun "light" apart from the adjective
// ("light snack", "light blue") and handing visualizer phrasing over to
// the music domain.
type LightsDetector struct{}

var (
	lightNouns   = []string{"light", "lights", "lamp", "lamps", "bulb", "bulbs", "hue"}
	lightActions = []string{
		"turn on", "turn off", "switch on", "switch off", "set", "change",
		"dim", "brighten", "adjust", "on", "off",
	}
	lightColors = []string{
		"red", "blue", "green", "yellow", "purple", "orange", "white", "pink",
		"cyan", "magenta", "lime", "teal", "amber", "violet", "turquoise",
		"warm white", "cool white", "daylight", "gold", "coral", "salmon",
	}
	lightMoods = []string{
		"moonlight", "sunset", "ocean", "forest", "romance", "party",
		"focus", "relax", "energize", "movie", "fireplace", "arctic",
		"sunrise", "galaxy", "tropical", "reading", "dinner", "night",
		"cozy", "warm", "cool", "natural", "romantic", "chill", "calm",
		"zen", "meditation", "spa", "beach", "campfire", "candle", "aurora",
		"rainbow", "disco", "club", "concert", "gaming", "tv", "sleep",
	}

	// Phrases where "light" is an adjective, not a fixture.
	lightAdjectivePhrases = []string{
		"light snack", "light meal", "light reading", "light exercise",
		"light work", "light duty", "light touch", "light breeze",
		"light rain", "light traffic", "light weight", "light load",
		"light blue", "light green", "light pink", "light grey", "light gray",
		"light brown", "light yellow", "light purple", "light orange",
		"bring to light", "see the light", "light of day", "in light of",
		"light years", "speed of light", "light as a feather",
	}

	// Phrases that belong to the music visualizer.
	lightShowPhrases = []string{
		"light show", "lights dance", "sync lights", "disco mode", "party lights",
	}
)

var lightBrightnessRes = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,3})\s*%`),
	regexp.MustCompile(`brightness\s*(?:to\s*)?(\d{1,3})`),
	regexp.MustCompile(`(?:at|to)\s*(\d{1,3})\s*(?:percent|%)?`),
	regexp.MustCompile(`set\s*(?:to\s*)?(\d{1,3})`),
}

func (d *LightsDetector) Name() string { return "lights" }

func (d *LightsDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	if containsAny(lower, lightAdjectivePhrases) {
		return nil
	}
	if containsAny(lower, lightShowPhrases) {
		return nil
	}

	in, ok := d.detectControl(lower, ctx)
	if !ok {
		return nil
	}
	return []intent.Intent{in}
}

func (d *LightsDetector) detectControl(lower string, ctx *convo.Context) (intent.Intent, bool) {
	hasLight := containsAny(lower, lightNouns)
	hasAction := containsAny(lower, lightActions)
	hasColor := containsAny(lower, lightColors)
	hasMood := containsAny(lower, lightMoods)

	var confidence float64
	var reasons []string

	switch {
	case hasLight && (hasAction || hasColor || hasMood):
		confidence = 0.95
		reasons = append(reasons, "light + action/color/mood")

	case hasMood && !hasLight:
		// Mood words alone are weak; demand a set verb and something
		// that actually refers to the lights.
		setVerb := containsAny(lower, []string{"set", "change", "make", "switch to", "turn to"})
		lightRef := containsAny(lower, []string{"it", "them", "the lights", "the light", "lighting", "brightness"})

		if setVerb && lightRef && !ctx.Music.Seen && !strings.Contains(lower, "play") {
			confidence = 0.70
			reasons = append(reasons, "mood keyword with set context + light reference")
		} else {
			confidence = 0.40
			reasons = append(reasons, "mood keyword but no clear light context")
		}

	case hasColor && (strings.Contains(lower, "set") || strings.Contains(lower, "change") || strings.Contains(lower, "make")):
		if hasLight || ctx.Lights.Seen || strings.Contains(lower, "light") {
			confidence = 0.88
			reasons = append(reasons, "color + set/change + light context")
		} else {
			confidence = 0.45
			reasons = append(reasons, "color + set/change but no light context")
		}

	case hasLight:
		if hasAction || ctx.Lights.Seen {
			confidence = 0.65
			reasons = append(reasons, "light noun mentioned with action/context")
		} else {
			confidence = 0.40
			reasons = append(reasons, "light noun only - ambiguous")
		}
	}

	if strings.Contains(lower, "visualizer") || strings.Contains(lower, "light show") {
		confidence = 0
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolControlLights,
		Confidence: confidence,
		Priority:   intent.PriorityMedium,
		Reason:     strings.Join(reasons, " | "),
		Params:     lightParams(lower),
	}, true
}

// lightParams works out the action plus any mood, color, or brightness.
// Brightness arrives as a 0-100 percentage and leaves on the 0-254
// device scale.
func lightParams(lower string) intent.Lights {
	params := intent.Lights{Action: "status"}

	if strings.Contains(lower, "turn on") || strings.Contains(lower, "switch on") {
		params.Action = "on"
	} else if strings.Contains(lower, "turn off") || strings.Contains(lower, "switch off") {
		params.Action = "off"
	}

	for _, mood := range lightMoods {
		if strings.Contains(lower, mood) {
			params.Action = "mood"
			params.Mood = mood
			break
		}
	}

	if params.Mood == "" {
		for _, color := range lightColors {
			if strings.Contains(lower, color) {
				params.Action = "color"
				params.Color = color
				break
			}
		}
	}

	for _, re := range lightBrightnessRes {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		pct, err := strconv.Atoi(m[1])
		if err != nil || pct < 0 || pct > 100 {
			continue
		}
		v := pct * 254 / 100
		params.Brightness = &v
		if params.Action == "status" {
			params.Action = "brightness"
		}
		break
	}

	// Natural-language brightness when no number was given.
	switch {
	case strings.Contains(lower, "dim") && params.Brightness == nil:
		v := 50
		params.Brightness = &v
		if params.Action == "status" {
			params.Action = "brightness"
		}
	case strings.Contains(lower, "bright") && params.Brightness == nil:
		v := 254
		params.Brightness = &v
		if params.Action == "status" {
			params.Action = "brightness"
		}
	case strings.Contains(lower, "half") && params.Brightness == nil:
		v := 127
		params.Brightness = &v
		if params.Action == "status" {
			params.Action = "brightness"
		}
	}

	return params
}
