package aiservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"activsante/internal/database"
	"activsante/internal/reco"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func sampleSubmission() database.Submission {
	return database.Submission{ID: "sub-1", SecureKey: "key-1"}
}

func sampleQuestions() []database.Question {
	return []database.Question{
		{ID: 1, Text: "Pratiquez-vous une activité physique ?", Type: "boolean", SectionID: int64Ptr(10), IsRequired: true},
		{ID: 2, Text: "Combien d'heures par semaine ?", Type: "number", SectionID: int64Ptr(10), ParentID: int64Ptr(1)},
	}
}

/* =================================================================================
							PAYLOAD ASSEMBLY
=================================================================================*/

func TestBuildSubmissionPayload_JoinsAnswersToQuestions(t *testing.T) {
	answers := []database.Answer{
		{QuestionID: 1, Value: "oui"},
		{QuestionID: 2, Value: "3"},
	}

	payload := BuildSubmissionPayload(sampleSubmission(), answers, sampleQuestions())

	assert.Equal(t, "sub-1", payload.SubmissionID)
	assert.Equal(t, "key-1", payload.SecureKey)
	assert.Equal(t, 2, payload.AnswersCount)
	require.Contains(t, payload.Answers, "1")
	detail := payload.Answers["1"]
	assert.Equal(t, "Pratiquez-vous une activité physique ?", detail.QuestionText)
	assert.Equal(t, "boolean", detail.QuestionType)
	assert.Equal(t, "oui", detail.Answer)
	assert.True(t, detail.IsRequired)
}

func TestBuildSubmissionPayload_DropsUnresolvableAnswers(t *testing.T) {
	answers := []database.Answer{
		{QuestionID: 1, Value: "oui"},
		{QuestionID: 999, Value: "orpheline"},
	}

	payload := BuildSubmissionPayload(sampleSubmission(), answers, sampleQuestions())

	assert.NotContains(t, payload.Answers, "999")
	assert.Len(t, payload.Answers, 1)
	// The count still reflects the full input.
	assert.Equal(t, 2, payload.AnswersCount)
}

func TestBuildSubmissionPayload_GeneratesSecureKeyWhenMissing(t *testing.T) {
	submission := database.Submission{ID: "sub-2"}

	payload := BuildSubmissionPayload(submission, nil, nil)

	assert.NotEmpty(t, payload.SecureKey)
}

/* =================================================================================
							RESPONSE HANDLING
=================================================================================*/

func TestFetchRecommendations_EnvelopeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var payload SubmissionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "sub-1", payload.SubmissionID)

		data := reco.RecommendationResponse{Conseils: []string{"marcher 30 min"}}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.FetchRecommendations(context.Background(), sampleSubmission(), nil, sampleQuestions())

	require.NoError(t, err)
	assert.Equal(t, []string{"marcher 30 min"}, got.Conseils)
}

func TestFetchRecommendations_DirectPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(reco.RecommendationResponse{Objectifs: []string{"3 mois"}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.FetchRecommendations(context.Background(), sampleSubmission(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"3 mois"}, got.Objectifs)
}

func TestFetchRecommendations_EnvelopeFailureCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]string{"message": "quota dépassé"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchRecommendations(context.Background(), sampleSubmission(), nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindShape, apiErr.Kind)
	assert.Equal(t, "quota dépassé", apiErr.Message)
}

func TestFetchRecommendations_ProtocolFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchRecommendations(context.Background(), sampleSubmission(), nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindProtocol, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestFetchRecommendations_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL)
	_, err := client.FetchRecommendations(context.Background(), sampleSubmission(), nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTransport, apiErr.Kind)
}

func TestFetchRecommendations_MalformedBodyIsShapeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchRecommendations(context.Background(), sampleSubmission(), nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindShape, apiErr.Kind)
}

func TestFetchRecommendations_FailureFallsBackToDefaultPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.FetchRecommendations(context.Background(), sampleSubmission(), nil, nil)
	if err != nil {
		require.True(t, errors.As(err, new(*APIError)))
		got = reco.DefaultRecommendation()
	}

	// The canonical fallback must itself round-trip through the normalizer.
	prescription, conseils := reco.SplitRecommendation(got)
	assert.NotEmpty(t, conseils.Conseils)
	assert.NotEmpty(t, prescription.Objectifs)
	assert.NotEmpty(t, prescription.Planification)
}
