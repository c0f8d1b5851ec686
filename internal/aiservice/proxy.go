package aiservice

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Proxy forwards submission payloads to the upstream generation service with
// the server-held bearer injected, and returns the upstream status and body
// verbatim. The credential never reaches the browser.
type Proxy struct {
	upstream   string
	bearer     string
	httpClient *http.Client
}

// NewProxy reads the upstream endpoint and credential from the environment.
func NewProxy() *Proxy {
	return &Proxy{
		upstream:   os.Getenv("ACTIV_AI_ENDPOINT"),
		bearer:     os.Getenv("ACTIV_AI_BEARER"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Handler is the POST /api/ai-proxy echo handler.
func (p *Proxy) Handler(c echo.Context) error {
	if p.upstream == "" || p.bearer == "" {
		log.Error().Msg("AI proxy is not configured (ACTIV_AI_ENDPOINT / ACTIV_AI_BEARER)")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "AI proxy is not configured"})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read request body"})
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost,
		p.upstream+"/submission", bytes.NewReader(body))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to build upstream request"})
	}
	req.Header.Set("Authorization", "Bearer "+p.bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("AI proxy upstream call failed")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Upstream service unreachable"})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to read upstream response"})
	}

	log.Info().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).
		Msg("AI proxy forwarded submission")

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	return c.Blob(resp.StatusCode, contentType, respBody)
}
