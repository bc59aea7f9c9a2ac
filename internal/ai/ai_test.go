package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/3dcreationshub/creationshub/internal/domain"
)

func TestBuildLeadReplyPrompt(t *testing.T) {
	in := LeadReplyInput{
		LeadName:        "Priya",
		CompanyName:     "MediPharm",
		ProductInterest: "Lenticular visual aids",
		Message:         "Need 500 units for a product launch.",
	}
	prompt := buildLeadReplyPrompt(in, "2 matching inquiries")
	assert.Contains(t, prompt, "- Name: Priya")
	assert.Contains(t, prompt, "- Company: MediPharm")
	assert.Contains(t, prompt, "- Interested In: Lenticular visual aids")
	assert.Contains(t, prompt, "Need 500 units")
	assert.Contains(t, prompt, "2 matching inquiries")
}

func TestBuildLeadReplyPromptOmitsEmptyCompany(t *testing.T) {
	prompt := buildLeadReplyPrompt(LeadReplyInput{
		LeadName:        "Priya",
		ProductInterest: "Corporate gifts",
		Message:         "Hello",
	}, "")
	assert.NotContains(t, prompt, "- Company:")
	assert.NotContains(t, prompt, "Inquiry history")
}

func TestSummarizeInquiries(t *testing.T) {
	assert.Equal(t, "No matching inquiries on record.", summarizeInquiries(nil))

	rows := []domain.Inquiry{
		{
			Name:            "Rohan Mehta",
			Company:         "MediPharm",
			ProductInterest: "Visual aids",
			Status:          domain.InquiryStatusInProgress,
			AssignedTo:      "Priya Singh",
			CreatedAt:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			Name:            "Anika",
			ProductInterest: "Trophies",
			Status:          domain.InquiryStatusNew,
		},
	}
	got := summarizeInquiries(rows)
	assert.Contains(t, got, "2 matching inquiries")
	assert.Contains(t, got, "Rohan Mehta (MediPharm) on 2026-03-02: interested in Visual aids, status In Progress, assigned to Priya Singh")
	assert.Contains(t, got, "Anika: interested in Trophies, status New")
}

func TestChatToolsDeclareLookups(t *testing.T) {
	tools := chatTools()
	assert.Len(t, tools, 1)
	names := []string{}
	for _, d := range tools[0].FunctionDeclarations {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{toolCompanyLookup, toolLeadLookup}, names)
	for _, d := range tools[0].FunctionDeclarations {
		assert.NotEmpty(t, d.Parameters.Required)
	}
}

func TestDecodeModelJSON(t *testing.T) {
	var out SEOSuggestions
	err := decodeModelJSON(`{"keywords":"3d prints","description":"Custom 3D prints."}`, &out)
	assert.NoError(t, err)
	assert.Equal(t, "3d prints", out.Keywords)
	assert.Equal(t, "Custom 3D prints.", out.Description)
}

func TestDecodeModelJSONMalformed(t *testing.T) {
	var out SEOSuggestions
	err := decodeModelJSON("Sure! Here is the JSON you asked for:", &out)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")

	err = decodeModelJSON(`{"keywords": 3}`, &out)
	assert.Error(t, err)
}

func TestArgString(t *testing.T) {
	args := map[string]interface{}{"company_name": "MediPharm", "count": 3}
	assert.Equal(t, "MediPharm", argString(args, "company_name"))
	assert.Equal(t, "", argString(args, "count"))
	assert.Equal(t, "", argString(args, "missing"))
}
