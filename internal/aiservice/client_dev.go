//go:build dev

package aiservice

import (
	"fmt"
	"net/http"
	"os"
)

// NewDirectClient targets the generation service directly with a bearer read
// from the environment, bypassing the proxy. Local development only: the
// credential lives in the client process, which is why this constructor is
// fenced behind the dev build tag and never ships in a deployed build.
func NewDirectClient() (*Client, error) {
	endpoint := os.Getenv("ACTIV_AI_ENDPOINT")
	bearer := os.Getenv("ACTIV_AI_BEARER")
	if endpoint == "" || bearer == "" {
		return nil, fmt.Errorf("ACTIV_AI_ENDPOINT and ACTIV_AI_BEARER must be set for direct mode")
	}

	return &Client{
		endpoint:   endpoint + "/submission",
		bearer:     bearer,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}
