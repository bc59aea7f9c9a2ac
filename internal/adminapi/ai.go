package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/3dcreationshub/creationshub/internal/ai"
	"github.com/3dcreationshub/creationshub/internal/webserver"
)

func registerAiRoutes() {
	webserver.ApiPOST("/ai/chat", aiChat)
	webserver.ApiPOST("/ai/seo", aiSeo)
	webserver.ApiPOST("/ai/lead-reply", aiLeadReply)
	webserver.ApiPOST("/ai/product-description", aiProductDescription)
	webserver.ApiGET("/ai/motivation", aiMotivation)
}

// aiService resolves the assistant service, failing the request when no
// API key is configured.
func aiService(c echo.Context) (*ai.Service, error) {
	svc := GetApp(c).AIService()
	if svc == nil {
		return nil, fail(c, http.StatusServiceUnavailable, "AI_DISABLED",
			"AI flows are disabled, configure an API key", nil)
	}
	return svc, nil
}

type chatPayload struct {
	History []ai.ChatMessage `json:"history" validate:"dive"`
	Prompt  string           `json:"prompt" validate:"required"`
}

func aiChat(c echo.Context) error {
	svc, err := aiService(c)
	if svc == nil {
		return err
	}
	var payload chatPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse chat request", err.Error())
	}
	payload.Prompt = strings.TrimSpace(payload.Prompt)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Prompt is required", nil)
	}
	answer, err := svc.SalesChat(c.Request().Context(), payload.History, payload.Prompt)
	if err != nil {
		return fail(c, http.StatusBadGateway, "AI_ERROR", "Chat generation failed", err.Error())
	}
	return ok(c, map[string]interface{}{"answer": answer})
}

type seoPayload struct {
	Text string `json:"text" validate:"required,min=10"`
}

func aiSeo(c echo.Context) error {
	svc, err := aiService(c)
	if svc == nil {
		return err
	}
	var payload seoPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	payload.Text = strings.TrimSpace(payload.Text)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Text must be at least 10 characters", nil)
	}
	out, err := svc.SuggestSEO(c.Request().Context(), payload.Text)
	if err != nil {
		return fail(c, http.StatusBadGateway, "AI_ERROR", "SEO suggestion failed", err.Error())
	}
	return ok(c, out)
}

func aiLeadReply(c echo.Context) error {
	svc, err := aiService(c)
	if svc == nil {
		return err
	}
	var payload ai.LeadReplyInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Lead name, product interest and message are required", nil)
	}
	out, err := svc.GenerateLeadReply(c.Request().Context(), payload)
	if err != nil {
		return fail(c, http.StatusBadGateway, "AI_ERROR", "Lead reply generation failed", err.Error())
	}
	return ok(c, out)
}

type productDescriptionPayload struct {
	ProductName  string `json:"product_name" validate:"required,min=3"`
	CategoryName string `json:"category_name" validate:"required"`
}

func aiProductDescription(c echo.Context) error {
	svc, err := aiService(c)
	if svc == nil {
		return err
	}
	var payload productDescriptionPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Product name and category name are required", nil)
	}
	description, err := svc.GenerateProductDescription(c.Request().Context(),
		payload.ProductName, payload.CategoryName)
	if err != nil {
		return fail(c, http.StatusBadGateway, "AI_ERROR", "Description generation failed", err.Error())
	}
	return ok(c, map[string]interface{}{"description": description})
}

func aiMotivation(c echo.Context) error {
	svc, err := aiService(c)
	if svc == nil {
		return err
	}
	quote, err := svc.DailyMotivation(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusBadGateway, "AI_ERROR", "Quote generation failed", err.Error())
	}
	return ok(c, quote)
}
