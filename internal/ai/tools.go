package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/3dcreationshub/creationshub/internal/domain"
)

const (
	toolCompanyLookup = "companyLookup"
	toolLeadLookup    = "leadLookup"

	toolResultLimit = 20
)

// chatTools declares the lookup tools the sales chat model may call. Both
// search the inquiry table, which is the company's record of every lead.
func chatTools() []*genai.Tool {
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        toolCompanyLookup,
				Description: "Looks up the inquiry history of a company. Use this for questions about leads, potential customers, or any company-related query.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"company_name": {
							Type:        genai.TypeString,
							Description: "The name of the company to look up.",
						},
					},
					Required: []string{"company_name"},
				},
			},
			{
				Name:        toolLeadLookup,
				Description: "Looks up past inquiries from a lead by name or email address.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"lead": {
							Type:        genai.TypeString,
							Description: "The lead's name or email address.",
						},
					},
					Required: []string{"lead"},
				},
			},
		},
	}}
}

// callTool dispatches one model-issued function call against the database.
// Unknown tools produce an error payload rather than failing the chat.
func (s *Service) callTool(ctx context.Context, call *genai.FunctionCall) map[string]interface{} {
	var (
		rows []domain.Inquiry
		err  error
	)
	switch call.Name {
	case toolCompanyLookup:
		rows, err = s.lookupCompany(ctx, argString(call.Args, "company_name"))
	case toolLeadLookup:
		rows, err = s.lookupLead(ctx, argString(call.Args, "lead"))
	default:
		err = errors.Errorf("unknown tool %s", call.Name)
	}
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}
	return map[string]interface{}{"summary": summarizeInquiries(rows)}
}

func (s *Service) lookupCompany(ctx context.Context, name string) ([]domain.Inquiry, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("company name is empty")
	}
	var rows []domain.Inquiry
	err := s.db.WithContext(ctx).
		Where("lower(company) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(name))+"%").
		Order("created_at desc").Limit(toolResultLimit).
		Find(&rows).Error
	return rows, err
}

func (s *Service) lookupLead(ctx context.Context, lead string) ([]domain.Inquiry, error) {
	if strings.TrimSpace(lead) == "" {
		return nil, errors.New("lead is empty")
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(lead)) + "%"
	var rows []domain.Inquiry
	err := s.db.WithContext(ctx).
		Where("lower(name) LIKE ? OR lower(email) LIKE ?", pattern, pattern).
		Order("created_at desc").Limit(toolResultLimit).
		Find(&rows).Error
	return rows, err
}

// summarizeInquiries renders lookup rows as compact text for the model.
func summarizeInquiries(rows []domain.Inquiry) string {
	if len(rows) == 0 {
		return "No matching inquiries on record."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d matching inquiries:\n", len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "- %s", r.Name)
		if r.Company != "" {
			fmt.Fprintf(&b, " (%s)", r.Company)
		}
		if !r.CreatedAt.IsZero() {
			fmt.Fprintf(&b, " on %s", r.CreatedAt.Format("2006-01-02"))
		}
		fmt.Fprintf(&b, ": interested in %s, status %s", r.ProductInterest, r.Status)
		if r.AssignedTo != "" {
			fmt.Fprintf(&b, ", assigned to %s", r.AssignedTo)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func argString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}
