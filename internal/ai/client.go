// Package ai wraps the Gemini API behind the back-office assistant flows:
// sales chat, lead replies, SEO suggestions, product descriptions and the
// daily motivation quote.
package ai

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is a thin wrapper over the Gemini SDK pinned to one model.
type Client struct {
	gen   *genai.Client
	model string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("ai: api key is required")
	}
	gen, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, errors.Wrap(err, "ai: create client")
	}
	return &Client{gen: gen, model: model}, nil
}

// generateJSON runs a completion constrained to the given response schema
// and decodes the JSON answer into out.
func (c *Client) generateJSON(ctx context.Context, system, prompt string, schema *genai.Schema, out interface{}) error {
	resp, err := c.gen.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    schema,
		})
	if err != nil {
		return errors.Wrap(err, "ai: generate")
	}
	return decodeModelJSON(resp.Text(), out)
}

// decodeModelJSON decodes a schema-constrained model answer, logging the raw
// payload when the model strays from the schema.
func decodeModelJSON(text string, out interface{}) error {
	if err := json.UnmarshalFromString(text, out); err != nil {
		zap.L().Error("model returned malformed json",
			zap.String("namespace", "ai"),
			zap.String("payload", text))
		return errors.Wrap(err, "ai: decode response")
	}
	return nil
}
