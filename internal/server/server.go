/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
core service dependencies.
*/
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"activsante/internal/aiservice"
	"activsante/internal/database"
	"activsante/internal/reco"
	"activsante/internal/signature"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

const storeRegistrySize = 1024

// Server holds the configuration and dependencies of the HTTP service.
type Server struct {
	port int

	db database.Service

	// registry hands out the per-session recommendation store.
	registry *reco.Registry

	// aiClient reaches the generation service through the trusted proxy.
	aiClient *aiservice.Client

	proxy *aiservice.Proxy

	signatures *signature.Service
}

// NewServer reads configuration from the environment and returns a configured
// *http.Server with production network timeouts.
func NewServer(db database.Service) *http.Server {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	registry, err := reco.NewRegistry(storeRegistrySize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create store registry")
	}

	proxyEndpoint := os.Getenv("ACTIV_PROXY_ENDPOINT")
	if proxyEndpoint == "" {
		proxyEndpoint = fmt.Sprintf("http://localhost:%d/api/ai-proxy", port)
	}

	sigRoot := os.Getenv("ACTIV_SIGNATURE_DIR")
	if sigRoot == "" {
		sigRoot = "data/signatures"
	}
	objectStore, err := signature.NewDiskStore(sigRoot)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create signature store")
	}

	app := &Server{
		port:       port,
		db:         db,
		registry:   registry,
		aiClient:   aiservice.NewClient(proxyEndpoint),
		proxy:      aiservice.NewProxy(),
		signatures: signature.NewService(objectStore, db.Queries()),
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", app.port),
		Handler:      app.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // generation calls can be slow
	}
}
