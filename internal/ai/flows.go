package ai

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"
	"gorm.io/gorm"

	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/pkg/common"
)

// maxToolRounds bounds the tool-call loop in sales chat. One round of
// lookups is enough for the questions the tools can answer.
const maxToolRounds = 1

// Service ties the model client to the database the lookup tools and the
// motivation cache live in.
type Service struct {
	client *Client
	db     *gorm.DB
}

func NewService(client *Client, db *gorm.DB) *Service {
	return &Service{client: client, db: db}
}

// ChatMessage is one prior turn of a sales chat conversation.
type ChatMessage struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text" validate:"required"`
}

// SalesChat answers one turn of the sales team chat. The model may call the
// inquiry lookup tools; their results are fed back for a final answer.
func (s *Service) SalesChat(ctx context.Context, history []ChatMessage, prompt string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(salesChatSystem, genai.RoleUser),
		Tools:             chatTools(),
	}

	for round := 0; ; round++ {
		resp, err := s.client.gen.Models.GenerateContent(ctx, s.client.model, contents, cfg)
		if err != nil {
			return "", errors.Wrap(err, "ai: sales chat")
		}
		calls := resp.FunctionCalls()
		if len(calls) == 0 || round >= maxToolRounds {
			return resp.Text(), nil
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}
		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			zap.L().Info("chat tool call",
				zap.String("namespace", "ai"),
				zap.String("tool", call.Name))
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, s.callTool(ctx, call)))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}
}

// SEOSuggestions is the structured answer of the SEO flow.
type SEOSuggestions struct {
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

func (s *Service) SuggestSEO(ctx context.Context, text string) (*SEOSuggestions, error) {
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"keywords": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Relevant keywords to enhance SEO optimization for the given text content.",
			},
			"description": {
				Type:        genai.TypeString,
				Description: "A short SEO-optimized description of the content incorporating some of the suggested keywords.",
			},
		},
		Required: []string{"keywords", "description"},
	}
	var out SEOSuggestions
	if err := s.client.generateJSON(ctx, seoSystem, buildSEOPrompt(text), schema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LeadReply is the structured answer of the lead reply flow.
type LeadReply struct {
	CompanyResearch string `json:"company_research"`
	SuggestedReply  string `json:"suggested_reply"`
}

// GenerateLeadReply looks up the company's inquiry history and asks the
// model for a personalized reply grounded in it.
func (s *Service) GenerateLeadReply(ctx context.Context, in LeadReplyInput) (*LeadReply, error) {
	var history string
	if in.CompanyName != "" {
		rows, err := s.lookupCompany(ctx, in.CompanyName)
		if err != nil {
			zap.L().Error("company lookup failed",
				zap.String("namespace", "ai"),
				zap.Error(err))
		} else {
			history = summarizeInquiries(rows)
		}
	}
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"company_research": {
				Type:        genai.TypeString,
				Description: "A brief summary of the company, its business, and potential needs related to our products. If no company name is provided, this should state that research could not be performed.",
			},
			"suggested_reply": {
				Type:        genai.TypeString,
				Description: "A professionally crafted, personalized email reply to the lead.",
			},
		},
		Required: []string{"company_research", "suggested_reply"},
	}
	var out LeadReply
	if err := s.client.generateJSON(ctx, leadReplySystem, buildLeadReplyPrompt(in, history), schema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateProductDescription drafts catalog copy for a product.
func (s *Service) GenerateProductDescription(ctx context.Context, productName, categoryName string) (string, error) {
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"description": {
				Type:        genai.TypeString,
				Description: "A compelling, professional, and SEO-friendly product description.",
			},
		},
		Required: []string{"description"},
	}
	var out struct {
		Description string `json:"description"`
	}
	err := s.client.generateJSON(ctx, productDescriptionSystem,
		buildProductDescriptionPrompt(productName, categoryName), schema, &out)
	if err != nil {
		return "", err
	}
	return out.Description, nil
}

// DailyMotivation returns the quote of the day, generating and caching it
// on first request.
func (s *Service) DailyMotivation(ctx context.Context) (*domain.MotivationQuote, error) {
	day := time.Now().Format("2006-01-02")
	var cached domain.MotivationQuote
	err := s.db.WithContext(ctx).Where("day = ?", day).First(&cached).Error
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "ai: load cached quote")
	}

	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"quote": {
				Type:        genai.TypeString,
				Description: "A short, powerful motivational quote for a sales team.",
			},
			"author": {
				Type:        genai.TypeString,
				Description: `The person who said the quote. If unknown, use "Anonymous".`,
			},
		},
		Required: []string{"quote", "author"},
	}
	var out struct {
		Quote  string `json:"quote"`
		Author string `json:"author"`
	}
	seed := time.Now().Format(time.RFC3339Nano)
	if err := s.client.generateJSON(ctx, motivationSystem, buildMotivationPrompt(seed), schema, &out); err != nil {
		return nil, err
	}

	quote := domain.MotivationQuote{
		ID:     common.UUIDint64(),
		Day:    day,
		Quote:  out.Quote,
		Author: out.Author,
	}
	if err := s.db.WithContext(ctx).Create(&quote).Error; err != nil {
		// serving the quote matters more than caching it
		zap.L().Error("cache quote failed",
			zap.String("namespace", "ai"),
			zap.Error(err))
	}
	return &quote, nil
}
