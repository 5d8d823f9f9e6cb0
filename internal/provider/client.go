// Package provider adapts the OpenAI API to the text, image and speech
// operations used by the application.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eon-interface/idealworld/config"
	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyCompletion = errors.New("provider returned no completion choices")
	ErrEmptyImage      = errors.New("provider returned no image data")
)

type Client struct {
	api        *openai.Client
	textModel  string
	imageModel string
	imageSize  string
	ttsModel   string
	ttsVoice   string
	metrics    *Metrics
}

func NewClient(cfg config.OpenAIConfig) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.OrgID = cfg.Organization
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:        openai.NewClientWithConfig(oc),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		imageSize:  cfg.ImageSize,
		ttsModel:   cfg.TTSModel,
		ttsVoice:   cfg.TTSVoice,
		metrics:    &Metrics{},
	}
}

func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// CompleteText sends one system+user chat completion and returns the first
// choice's content. jsonMode constrains the answer to a single JSON object.
func (c *Client) CompleteText(ctx context.Context, system, user string, jsonMode bool) (out string, err error) {
	defer c.track(OpChat, time.Now(), &err)

	chatReq := openai.ChatCompletionRequest{
		Model: c.textModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if jsonMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage requests one image and returns its base64 payload.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (b64 string, err error) {
	defer c.track(OpImage, time.Now(), &err)

	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.imageModel,
		N:              1,
		Size:           c.imageSize,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", ErrEmptyImage
	}
	return resp.Data[0].B64JSON, nil
}

// Synthesize converts text to speech and returns the encoded audio.
func (c *Client) Synthesize(ctx context.Context, text string) (audio []byte, err error) {
	defer c.track(OpSpeech, time.Now(), &err)

	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(c.ttsModel),
		Voice: openai.SpeechVoice(c.ttsVoice),
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis: %w", err)
	}
	defer resp.Close()

	audio, err = io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech audio: %w", err)
	}
	return audio, nil
}

func (c *Client) track(op string, start time.Time, err *error) {
	c.metrics.record(op, time.Since(start), *err)
}
