package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcg-platform/componentgen/internal/api/response"
	"github.com/mcg-platform/componentgen/internal/llm"
	"github.com/mcg-platform/componentgen/internal/service"
	"github.com/rs/zerolog/log"
)

type LLMHandler struct {
	components *service.ComponentService
}

func NewLLMHandler(components *service.ComponentService) *LLMHandler {
	return &LLMHandler{components: components}
}

// GenerateComponent generates a renderable component from a prompt
func (h *LLMHandler) GenerateComponent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt   string `json:"prompt"`
		Provider string `json:"provider"`
		Model    string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if req.Prompt == "" {
		response.BadRequest(w, "Prompt is required")
		return
	}

	resp, err := h.components.Generate(r.Context(), req.Prompt, req.Provider, req.Model)
	if err != nil {
		var outErr *llm.OutputError
		if errors.As(err, &outErr) {
			log.Error().Str("raw", outErr.Raw).Msg("model output failed validation")
			response.InternalError(w, outErr.Reason)
			return
		}

		log.Error().Err(err).Msg("component generation failed")
		response.InternalError(w, "Component generation failed at the server")
		return
	}

	response.OK(w, resp.Component)
}

// ListProviders returns the registered LLM providers
func (h *LLMHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.components.Providers())
}
