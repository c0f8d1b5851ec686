package server

import (
	"errors"
	"net/http"

	"activsante/internal/aiservice"
	"activsante/internal/database"
	"activsante/internal/metrics"
	"activsante/internal/reco"
	"activsante/internal/utility"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

/* =================================================================================
							QUESTIONNAIRE HANDLERS
=================================================================================*/

func (s *Server) listQuestionsHandler(c echo.Context) error {
	questions, err := s.db.Queries().ListQuestions(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list questions")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load questions"})
	}
	return c.JSON(http.StatusOK, questions)
}

func (s *Server) listSectionsHandler(c echo.Context) error {
	sections, err := s.db.Queries().ListSections(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list sections")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load sections"})
	}
	return c.JSON(http.StatusOK, sections)
}

func (s *Server) getSubmissionHandler(c echo.Context) error {
	submission, err := s.db.Queries().GetSubmission(c.Request().Context(), c.Param("submission_id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Submission not found"})
		}
		log.Error().Err(err).Msg("Failed to load submission")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load submission"})
	}
	return c.JSON(http.StatusOK, submission)
}

func (s *Server) createSubmissionHandler(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := c.Get("user").(*database.User)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	submission, err := s.db.Queries().CreateSubmission(ctx, uuid.New().String(), uuid.New().String(), &user.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create submission")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create submission"})
	}
	return c.JSON(http.StatusCreated, submission)
}

func (s *Server) listAnswersHandler(c echo.Context) error {
	answers, err := s.db.Queries().ListAnswersBySubmission(c.Request().Context(), c.Param("submission_id"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list answers")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load answers"})
	}
	return c.JSON(http.StatusOK, answers)
}

/* =================================================================================
							RECOMMENDATION HANDLERS
=================================================================================*/

// GenerateResponse is what the generation endpoint answers with: the fresh
// store snapshot, plus whether the canonical default payload was substituted.
type GenerateResponse struct {
	Snapshot reco.Snapshot `json:"snapshot"`
	Fallback bool          `json:"fallback"`
	Error    string        `json:"error,omitempty"`
}

// generateRecommendationsHandler orchestrates one fetch: it gathers the
// submission with its answers and the questionnaire, calls the generation
// service, and resolves the user's store. On any Client failure the canonical
// default payload is substituted so the pages never render dead.
func (s *Server) generateRecommendationsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	store := s.registry.Get(userID)
	token := store.BeginFetch()

	submissionID := c.Param("submission_id")
	q := s.db.Queries()

	var (
		submission database.Submission
		answers    []database.Answer
		questions  []database.Question
	)

	g, grpCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		submission, err = q.GetSubmission(grpCtx, submissionID)
		return err
	})
	g.Go(func() error {
		var err error
		answers, err = q.ListAnswersBySubmission(grpCtx, submissionID)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = q.ListQuestions(grpCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		store.Resolve(token, nil, "Soumission introuvable")
		if errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Submission not found"})
		}
		log.Error().Err(err).Str("submission_id", submissionID).Msg("Failed to gather submission data")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load submission data"})
	}

	result, err := s.aiClient.FetchRecommendations(ctx, submission, answers, questions)
	if err != nil {
		outcome := "transport"
		var apiErr *aiservice.APIError
		if errors.As(err, &apiErr) {
			outcome = string(apiErr.Kind)
		}
		metrics.UpstreamCallTotals.WithLabelValues(outcome).Inc()
		log.Error().Err(err).Str("submission_id", submissionID).Msg("Generation service failed, substituting defaults")

		fallback := reco.DefaultRecommendation()
		store.Resolve(token, &fallback, "Le service de recommandations est indisponible, recommandations par défaut affichées")

		return c.JSON(http.StatusOK, GenerateResponse{
			Snapshot: store.Snapshot(),
			Fallback: true,
			Error:    err.Error(),
		})
	}

	metrics.UpstreamCallTotals.WithLabelValues("ok").Inc()
	store.Resolve(token, &result, "")

	return c.JSON(http.StatusOK, GenerateResponse{Snapshot: store.Snapshot()})
}

func (s *Server) getRecommendationsHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	return c.JSON(http.StatusOK, s.registry.Get(userID).Snapshot())
}

func (s *Server) getPrescriptionHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	snap := s.registry.Get(userID).Snapshot()
	if snap.Prescription == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No recommendation available"})
	}
	return c.JSON(http.StatusOK, snap.Prescription)
}

func (s *Server) getConseilsHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	snap := s.registry.Get(userID).Snapshot()
	if snap.Conseils == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No recommendation available"})
	}
	return c.JSON(http.StatusOK, snap.Conseils)
}

func (s *Server) clearRecommendationsHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	s.registry.Get(userID).Clear()
	return c.NoContent(http.StatusNoContent)
}
