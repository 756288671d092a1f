package detect

import (
	"strings"
	"testing"

	"github.com/normanking/thalamus/internal/intent"
)

func detectWeather(t *testing.T, message string) []intent.Intent {
	t.Helper()
	d := &WeatherDetector{}
	return d.Detect(message, strings.ToLower(message), nil)
}

func TestWeather_Strong(t *testing.T) {
	intents := detectWeather(t, "what's the weather in tokyo today")

	weather, ok := findTool(intents, intent.ToolGetWeather)
	if !ok {
		t.Fatal("expected a weather intent")
	}
	if weather.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", weather.Confidence)
	}
	params := weather.Params.(intent.Weather)
	if params.Location != "tokyo" {
		t.Errorf("location = %q, want tokyo", params.Location)
	}
}

func TestWeather_NounWithQuestion(t *testing.T) {
	intents := detectWeather(t, "will it rain tomorrow")

	weather, ok := findTool(intents, intent.ToolGetWeather)
	if !ok {
		t.Fatal("expected a weather intent")
	}
	if weather.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", weather.Confidence)
	}
	params := weather.Params.(intent.Weather)
	if params.Location != "" {
		t.Errorf("location = %q, want empty", params.Location)
	}
}

func TestWeather_NounOnly(t *testing.T) {
	intents := detectWeather(t, "weather report for boston")

	weather, ok := findTool(intents, intent.ToolGetWeather)
	if !ok {
		t.Fatal("expected a weather intent")
	}
	if weather.Confidence != 0.70 {
		t.Errorf("confidence = %v, want 0.70", weather.Confidence)
	}
}

func TestWeather_DanglingLocationPhrase(t *testing.T) {
	// " in " with nothing after it must not blow up.
	intents := detectWeather(t, "what's the weather in ")

	weather, ok := findTool(intents, intent.ToolGetWeather)
	if !ok {
		t.Fatal("expected a weather intent")
	}
	params := weather.Params.(intent.Weather)
	if params.Location != "" {
		t.Errorf("location = %q, want empty", params.Location)
	}
}

func TestWeather_NoSignals(t *testing.T) {
	if intents := detectWeather(t, "turn on the lights"); len(intents) != 0 {
		t.Errorf("Detect = %v, want none", intents)
	}
}
