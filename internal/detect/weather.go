package detect

import (
	"strings"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
)

// WeatherDetector proposes forecast lookups.
type WeatherDetector struct{}

var (
	weatherStrong = []string{
		"weather forecast", "check weather", "what is the weather",
		"what's the weather", "weather today", "weather this week",
	}
	weatherNouns         = []string{"weather", "forecast", "temperature", "rain", "snow", "precipitation"}
	weatherQuestionVerbs = []string{"what", "how", "will it", "is it"}
)

func (d *WeatherDetector) Name() string { return "weather" }

func (d *WeatherDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	var confidence float64
	var reasons []string

	switch {
	case containsAny(lower, weatherStrong):
		confidence = 0.95
		reasons = append(reasons, "explicit weather keywords")
	case containsAny(lower, weatherNouns):
		if containsAny(lower, weatherQuestionVerbs) {
			confidence = 0.85
			reasons = append(reasons, "weather noun + question")
		} else {
			confidence = 0.70
			reasons = append(reasons, "weather noun mentioned")
		}
	}

	if confidence <= 0 {
		return nil
	}

	return []intent.Intent{{
		Tool:       intent.ToolGetWeather,
		Confidence: confidence,
		Priority:   intent.PriorityMedium,
		Reason:     strings.Join(reasons, " | "),
		Params:     weatherParams(lower),
	}}
}

// weatherParams grabs the first word after " in " as the location, when
// there is one.
func weatherParams(lower string) intent.Weather {
	var params intent.Weather
	if _, after, found := strings.Cut(lower, " in "); found {
		if fields := strings.Fields(after); len(fields) > 0 {
			params.Location = fields[0]
		}
	}
	return params
}
