/*
Package aiservice talks to the upstream recommendation generation service. The
production path goes through the same-origin proxy so the bearer credential
never leaves the server; the direct variant only exists under the dev build tag.
*/
package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"activsante/internal/database"
	"activsante/internal/reco"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 60 * time.Second

/* =================================================================================
							REQUEST PAYLOAD
=================================================================================*/

// AnswerDetail is one answer joined with its question definition, keyed in the
// payload by the stringified question id.
type AnswerDetail struct {
	QuestionID   int64  `json:"question_id"`
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	Answer       string `json:"answer"`
	SectionID    *int64 `json:"section_id"`
	ParentID     *int64 `json:"parent_id"`
	IsRequired   bool   `json:"is_required"`
}

// SubmissionPayload is the request body sent to the generation service.
type SubmissionPayload struct {
	SubmissionID string                  `json:"submission_id"`
	SecureKey    string                  `json:"secure_key"`
	SubmittedAt  string                  `json:"submitted_at"`
	AnswersCount int                     `json:"answers_count"`
	Answers      map[string]AnswerDetail `json:"answers"`
}

// BuildSubmissionPayload joins each answer to its question definition. Answers
// whose question cannot be resolved are dropped from the map, never defaulted;
// AnswersCount still reflects the full input so the upstream can notice gaps.
func BuildSubmissionPayload(submission database.Submission, answers []database.Answer, questions []database.Question) SubmissionPayload {
	byID := make(map[int64]database.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	formatted := make(map[string]AnswerDetail)
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			log.Warn().Int64("question_id", a.QuestionID).Msg("Dropping answer with unknown question")
			continue
		}
		formatted[strconv.FormatInt(a.QuestionID, 10)] = AnswerDetail{
			QuestionID:   a.QuestionID,
			QuestionText: q.Text,
			QuestionType: q.Type,
			Answer:       a.Value,
			SectionID:    q.SectionID,
			ParentID:     q.ParentID,
			IsRequired:   q.IsRequired,
		}
	}

	secureKey := submission.SecureKey
	if secureKey == "" {
		secureKey = uuid.New().String()
	}

	return SubmissionPayload{
		SubmissionID: submission.ID,
		SecureKey:    secureKey,
		SubmittedAt:  time.Now().UTC().Format(time.RFC3339),
		AnswersCount: len(answers),
		Answers:      formatted,
	}
}

/* =================================================================================
							FAILURE TAXONOMY
=================================================================================*/

// ErrorKind classifies a Client failure.
type ErrorKind string

const (
	// KindTransport covers network, DNS and timeout failures reaching the endpoint.
	KindTransport ErrorKind = "transport"
	// KindProtocol covers non-2xx statuses.
	KindProtocol ErrorKind = "protocol"
	// KindShape covers bodies missing expected data or envelopes reporting failure.
	KindShape ErrorKind = "shape"
)

// APIError is the single typed failure surfaced by the Client. Parse degradation
// is not an error and never reaches this type.
type APIError struct {
	Kind    ErrorKind
	Status  int // HTTP status, when one was received
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ai service %s failure (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("ai service %s failure: %s", e.Kind, e.Message)
}

/* =================================================================================
									CLIENT
=================================================================================*/

// Client fetches recommendations from the generation service. It performs no
// retries; the caller decides whether to fall back to the default payload.
type Client struct {
	endpoint   string
	bearer     string // empty on the proxied path; the proxy injects it
	httpClient *http.Client
}

// NewClient returns a client targeting the trusted same-origin proxy endpoint.
func NewClient(proxyEndpoint string) *Client {
	return &Client{
		endpoint:   proxyEndpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// envelope is the optional {success, data, error} wrapper some deployments of
// the generation service answer with.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// FetchRecommendations assembles the submission payload and posts it to the
// configured endpoint. It accepts both the enveloped and the direct response
// shape and returns an *APIError on any transport, protocol or shape failure.
func (c *Client) FetchRecommendations(ctx context.Context, submission database.Submission, answers []database.Answer, questions []database.Question) (reco.RecommendationResponse, error) {
	payload := BuildSubmissionPayload(submission, answers, questions)
	return c.post(ctx, payload)
}

func (c *Client) post(ctx context.Context, payload SubmissionPayload) (reco.RecommendationResponse, error) {
	var empty reco.RecommendationResponse

	body, err := json.Marshal(payload)
	if err != nil {
		return empty, &APIError{Kind: KindShape, Message: fmt.Sprintf("marshal payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return empty, &APIError{Kind: KindTransport, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	log.Info().Str("endpoint", c.endpoint).Int("answers_count", payload.AnswersCount).
		Msg("Requesting recommendations")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, &APIError{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, &APIError{Kind: KindTransport, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return empty, &APIError{Kind: KindProtocol, Status: resp.StatusCode, Message: resp.Status}
	}

	return decodeResponse(raw, resp.StatusCode)
}

// decodeResponse accepts either {success, data, error} or the recommendation
// payload directly at the top level.
func decodeResponse(raw []byte, status int) (reco.RecommendationResponse, error) {
	var empty reco.RecommendationResponse

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil {
		if !*env.Success || len(env.Data) == 0 {
			msg := "Erreur lors de la génération des recommandations"
			if env.Error != nil && env.Error.Message != "" {
				msg = env.Error.Message
			}
			return empty, &APIError{Kind: KindShape, Status: status, Message: msg}
		}
		var data reco.RecommendationResponse
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return empty, &APIError{Kind: KindShape, Status: status, Message: fmt.Sprintf("decode data: %v", err)}
		}
		return data, nil
	}

	var data reco.RecommendationResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return empty, &APIError{Kind: KindShape, Status: status, Message: fmt.Sprintf("decode body: %v", err)}
	}
	return data, nil
}
