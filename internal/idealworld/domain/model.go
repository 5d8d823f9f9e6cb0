package domain

import "context"

// Submission is one request to imagine an ideal world.
type Submission struct {
	Name           string `json:"name"`
	IdealWorldText string `json:"idealWorldText"`
}

// Generation is the outcome of a submission that passed the alignment gate.
type Generation struct {
	Name           string
	IdealWorldText string
	EnrichedPrompt string
	FileName       string
}

// Stage is a state of the generation pipeline.
type Stage int

const (
	StageReceived Stage = iota
	StageClassifying
	StageRejected
	StageEnriching
	StageGeneratingImage
	StagePersisted
	StageResponded
	StageFailed
)

var stageNames = [...]string{
	"received",
	"classifying",
	"rejected",
	"enriching",
	"generating_image",
	"persisted",
	"responded",
	"failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// TextCompleter answers one system+user prompt. When json is set the answer
// must be a single JSON object.
type TextCompleter interface {
	CompleteText(ctx context.Context, system, user string, json bool) (string, error)
}

// ImageGenerator turns a prompt into a base64 encoded image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
