/*
Package genai implements the recommendation generation service itself: it turns
a submission payload into a French exercise prescription by calling the Gemini
API with a structured response schema.
*/
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"

	"activsante/internal/aiservice"
	"activsante/internal/reco"
	"github.com/rs/zerolog/log"
)

const (
	geminiAPIURL       = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-lite:generateContent?key="
	maxRetries         = 3
	initialBackoff     = 1 * time.Second
	requestTimeout     = 60 * time.Second
	structuredMimeType = "application/json"
)

/* =================================================================================
						GEMINI API REQUEST/RESPONSE
=================================================================================*/

type geminiPayload struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"response_schema,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
	TopP             float64 `json:"topP,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Schema describes the structured output contract sent to Gemini.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

/* =================================================================================
							GENERATION ENTRY POINT
=================================================================================*/

// GenerateRecommendations builds the prescription prompt from the submission
// payload and returns the structured recommendation. The response always
// carries a disclaimer, even when the model omits one.
func GenerateRecommendations(ctx context.Context, payload aiservice.SubmissionPayload) (reco.RecommendationResponse, error) {
	var empty reco.RecommendationResponse

	prompt, err := BuildPrompt(payload)
	if err != nil {
		return empty, fmt.Errorf("build prompt: %w", err)
	}

	text, err := callStructuredGemini(ctx, SystemPrompt, prompt, PrescriptionSchema)
	if err != nil {
		return empty, err
	}

	var result reco.RecommendationResponse
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return empty, fmt.Errorf("decode generated recommendation: %w", err)
	}

	if result.Disclaimer == "" {
		result.Disclaimer = DefaultDisclaimer
	}
	return result, nil
}

// callStructuredGemini posts the prompt with the response schema attached and
// retries with exponential backoff on transient failures.
func callStructuredGemini(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Error().Msg("GEMINI_API_KEY environment variable is not set")
		return "", fmt.Errorf("server is not configured for recommendation generation")
	}

	payload := geminiPayload{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: &generationConfig{
			ResponseMimeType: structuredMimeType,
			ResponseSchema:   schema,
			Temperature:      1,
			TopP:             0.95,
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	client := &http.Client{Timeout: requestTimeout}
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, geminiAPIURL+apiKey, bytes.NewReader(payloadBytes))
		if err != nil {
			cancel()
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		log.Info().Int("attempt", i+1).Msg("Calling Gemini API")

		resp, err := client.Do(req)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("request failed: %w", err)
			log.Warn().Err(lastErr).Int("attempt", i+1).Msg("Gemini call failed")
			time.Sleep(initialBackoff * time.Duration(math.Pow(2, float64(i))))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			cancel()
			lastErr = fmt.Errorf("API returned non-200 status: %s, body: %s", resp.Status, string(body))
			log.Warn().Err(lastErr).Int("attempt", i+1).Msg("Gemini call failed")
			time.Sleep(initialBackoff * time.Duration(math.Pow(2, float64(i))))
			continue
		}

		var geminiResp geminiResponse
		err = json.NewDecoder(resp.Body).Decode(&geminiResp)
		resp.Body.Close()
		cancel()
		if err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}

		if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
			return geminiResp.Candidates[0].Content.Parts[0].Text, nil
		}
		return "", fmt.Errorf("no content found in Gemini response")
	}

	return "", fmt.Errorf("failed to call Gemini API after %d attempts: %w", maxRetries, lastErr)
}
