package detect

import (
	"strings"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
)

// VisionDetector proposes camera capture, image viewing, and face/place
// recognition intents.
type VisionDetector struct{}

var (
	cameraStrong = []string{
		"take a picture", "take a photo", "capture image", "camera capture",
		"snap a photo", "take screenshot", "get an image",
	}
	cameraKeywords = []string{"camera", "picture", "photo", "image", "snapshot", "capture"}
	cameraVerbs    = []string{"take", "capture", "snap", "get", "grab"}

	viewStrong = []string{
		"show me the image", "display the picture", "view the photo",
		"let me see", "show the picture", "display image",
	}
	viewVerbs  = []string{"show", "display", "view", "see", "look at"}
	imageNouns = []string{"image", "picture", "photo", "screenshot"}

	faceSignals = []string{
		"who is this", "who is that", "recognize face", "identify person",
		"who am i looking at", "who's this", "who's that",
	}
	placeSignals = []string{
		"where is this", "what place is this", "recognize location",
		"identify place", "where am i",
	}
)

func (d *VisionDetector) Name() string { return "vision" }

func (d *VisionDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	var intents []intent.Intent
	if in, ok := d.detectCapture(lower); ok {
		intents = append(intents, in)
	}
	if in, ok := d.detectView(lower, ctx); ok {
		intents = append(intents, in)
	}
	if in, ok := d.detectRecognition(lower); ok {
		intents = append(intents, in)
	}
	return intents
}

func (d *VisionDetector) detectCapture(lower string) (intent.Intent, bool) {
	var confidence float64
	var reasons []string

	if containsAny(lower, cameraStrong) {
		confidence = 0.95
		reasons = append(reasons, "explicit camera keywords")
	} else if containsAny(lower, cameraVerbs) && containsAny(lower, cameraKeywords) {
		confidence = 0.85
		reasons = append(reasons, "action verb + camera keyword")
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolCaptureCameraImage,
		Confidence: confidence,
		Priority:   intent.PriorityHigh,
		Reason:     strings.Join(reasons, " | "),
	}, true
}

func (d *VisionDetector) detectView(lower string, ctx *convo.Context) (intent.Intent, bool) {
	var confidence float64
	var reasons []string

	switch {
	case containsAny(lower, viewStrong):
		confidence = 0.90
		reasons = append(reasons, "explicit view image keywords")
	case containsAny(lower, viewVerbs) && containsAny(lower, imageNouns):
		confidence = 0.80
		reasons = append(reasons, "view verb + image noun")
	case ctx.Camera.Seen:
		if containsAny(lower, viewVerbs) {
			confidence = 0.70
			reasons = append(reasons, "view verb + camera context")
		}
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolViewImage,
		Confidence: confidence,
		Priority:   intent.PriorityMedium,
		Reason:     strings.Join(reasons, " | "),
	}, true
}

func (d *VisionDetector) detectRecognition(lower string) (intent.Intent, bool) {
	var tool intent.Tool
	var reason string

	if containsAny(lower, faceSignals) {
		tool = intent.ToolRecognizeFace
		reason = "face recognition keywords"
	} else if containsAny(lower, placeSignals) {
		tool = intent.ToolRecognizePlace
		reason = "place recognition keywords"
	} else {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       tool,
		Confidence: 0.90,
		Priority:   intent.PriorityMedium,
		Reason:     reason,
	}, true
}
