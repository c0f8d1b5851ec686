package server

import (
	"net/http"

	"activsante/internal/aiservice"
	"activsante/internal/genai"
	"activsante/internal/reco"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// generateUpstreamHandler is the generation service itself: it accepts a
// submission payload and answers with the enveloped recommendation. When
// generation fails it still answers with the canonical default payload so the
// caller has something to render.
func (s *Server) generateUpstreamHandler(c echo.Context) error {
	var payload aiservice.SubmissionPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	log.Info().Str("submission_id", payload.SubmissionID).Int("answers_count", payload.AnswersCount).
		Msg("Generating recommendations")

	result, err := genai.GenerateRecommendations(c.Request().Context(), payload)
	if err != nil {
		log.Error().Err(err).Str("submission_id", payload.SubmissionID).Msg("Generation failed, returning defaults")
		return c.JSON(http.StatusInternalServerError, reco.DefaultRecommendation())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}
