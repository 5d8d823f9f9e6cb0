package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/eon-interface/idealworld/internal/idealworld/domain"
	"github.com/eon-interface/idealworld/internal/storage"
)

const imageExt = ".png"

// ImagePrompt wraps an enriched prompt with the fixed photorealistic qualifier.
func ImagePrompt(enriched string) string {
	return fmt.Sprintf("Photorealistic: %s. High quality, realistic lighting, detailed.", enriched)
}

// ImageMaker generates an image and stores it under a fresh name.
type ImageMaker struct {
	images domain.ImageGenerator
	dir    *storage.Dir
}

func NewImageMaker(images domain.ImageGenerator, dir *storage.Dir) *ImageMaker {
	return &ImageMaker{images: images, dir: dir}
}

// Make returns the stored file name.
func (m *ImageMaker) Make(ctx context.Context, enrichedPrompt string) (string, error) {
	b64, err := m.images.GenerateImage(ctx, ImagePrompt(enrichedPrompt))
	if err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	name, err := m.dir.SaveNew(imageExt, data)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return name, nil
}
