// Package service implements the ideal world pipeline: topic classification,
// the alignment gate, prompt enrichment and image generation.
package service

import (
	"context"
	"strings"

	"github.com/eon-interface/idealworld/internal/idealworld/domain"
	"github.com/eon-interface/idealworld/internal/logging"
	"github.com/eon-interface/idealworld/internal/storage"
)

const opGenerate = "generate"

type Pipeline struct {
	classifier *Classifier
	enricher   *Enricher
	images     *ImageMaker
}

// NewPipeline wires the three stages. text serves both classification and
// enrichment.
func NewPipeline(text domain.TextCompleter, images domain.ImageGenerator, dir *storage.Dir) *Pipeline {
	return &Pipeline{
		classifier: NewClassifier(text),
		enricher:   NewEnricher(text),
		images:     NewImageMaker(images, dir),
	}
}

// Run processes one submission synchronously from Received to Persisted.
// Validation problems and gate rejections return a *domain.ValidationError
// before any further external call; provider, decode and write failures
// return a *domain.PipelineError.
func (p *Pipeline) Run(ctx context.Context, sub domain.Submission) (*domain.Generation, error) {
	logger := logging.New(ctx)

	sub.Name = strings.TrimSpace(sub.Name)
	sub.IdealWorldText = strings.TrimSpace(sub.IdealWorldText)
	if sub.Name == "" {
		return nil, domain.ErrMissingName
	}
	if sub.IdealWorldText == "" {
		return nil, domain.ErrMissingIdealWorld
	}
	logger.Infof(opGenerate, "stage=%s name=%q", domain.StageReceived, sub.Name)

	logger.Infof(opGenerate, "stage=%s", domain.StageClassifying)
	aligned, err := p.classifier.Classify(ctx, sub.IdealWorldText)
	if err != nil {
		return nil, p.fail(logger, domain.StageClassifying, err)
	}
	if !aligned {
		logger.Warnf(opGenerate, "stage=%s name=%q", domain.StageRejected, sub.Name)
		return nil, domain.ErrNotAligned
	}

	logger.Infof(opGenerate, "stage=%s", domain.StageEnriching)
	enriched, err := p.enricher.Enrich(ctx, sub.IdealWorldText)
	if err != nil {
		return nil, p.fail(logger, domain.StageEnriching, err)
	}

	logger.Infof(opGenerate, "stage=%s prompt=%q", domain.StageGeneratingImage, enriched)
	fileName, err := p.images.Make(ctx, enriched)
	if err != nil {
		return nil, p.fail(logger, domain.StageGeneratingImage, err)
	}

	logger.Infof(opGenerate, "stage=%s file=%s", domain.StagePersisted, fileName)
	return &domain.Generation{
		Name:           sub.Name,
		IdealWorldText: sub.IdealWorldText,
		EnrichedPrompt: enriched,
		FileName:       fileName,
	}, nil
}

func (p *Pipeline) fail(logger *logging.Logger, stage domain.Stage, err error) error {
	perr := &domain.PipelineError{Stage: stage, Err: err}
	logger.Error(opGenerate, perr)
	return perr
}
