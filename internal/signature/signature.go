/*
Package signature manages the doctor's signature image: one PNG per user,
retrieved through signed, time-limited URLs.
*/
package signature

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"activsante/internal/database"
	"activsante/internal/utility"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	// SignedURLTTL matches the 600-second validity of the reference deployment.
	SignedURLTTL   = 600 * time.Second
	maxUploadBytes = 1_000_000
)

// Service exposes the signature handlers.
type Service struct {
	store   ObjectStore
	queries *database.Queries
}

func NewService(store ObjectStore, q *database.Queries) *Service {
	return &Service{store: store, queries: q}
}

func objectPath(userID string) string {
	return userID + "/signature.png"
}

/* =================================================================================
								SIGNED URLS
=================================================================================*/

type urlClaims struct {
	Path string `json:"path"`
	jwt.RegisteredClaims
}

func mintSignedToken(path string, ttl time.Duration) (string, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return "", fmt.Errorf("SESSION_SECRET is not set")
	}

	claims := &urlClaims{
		Path: path,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func verifySignedToken(token string) (string, error) {
	secret := os.Getenv("SESSION_SECRET")
	parsed, err := jwt.ParseWithClaims(token, &urlClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid signed url token")
	}
	claims, ok := parsed.Claims.(*urlClaims)
	if !ok || claims.Path == "" {
		return "", fmt.Errorf("invalid signed url claims")
	}
	return claims.Path, nil
}

/* =================================================================================
									HANDLERS
=================================================================================*/

// UploadHandler stores the user's signature image and records its path.
// Only image uploads up to 1 Mo are accepted; the stored object is always
// <user>/signature.png.
func (s *Service) UploadHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Fichier manquant"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Fichier trop volumineux (max 1 Mo)"})
	}
	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Type de fichier invalide"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read upload"})
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil || len(data) > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Fichier trop volumineux (max 1 Mo)"})
	}

	path := objectPath(userID)
	if err := s.store.Put(ctx, path, data); err != nil {
		log.Error().Err(err).Msg("Failed to store signature")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store signature"})
	}

	if err := s.queries.UpdateUserSignaturePath(ctx, userID, &path); err != nil {
		log.Error().Err(err).Msg("Failed to record signature path")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to record signature"})
	}

	return c.JSON(http.StatusOK, map[string]string{"path": path})
}

// SignedURLHandler returns a time-limited URL for the user's signature, or a
// null url when none is stored.
func (s *Service) SignedURLHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	user, err := s.queries.GetUserByAuthID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	if user.SignaturePath == nil || *user.SignaturePath == "" {
		return c.JSON(http.StatusOK, map[string]any{"url": nil})
	}

	token, err := mintSignedToken(*user.SignaturePath, SignedURLTTL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to mint signed url")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create signed URL"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"url":        "/signature/object?token=" + url.QueryEscape(token),
		"expires_in": int64(SignedURLTTL.Seconds()),
	})
}

// ObjectHandler serves the signature image referenced by a valid signed token.
// It sits outside the auth middleware: the token is the authorization.
func (s *Service) ObjectHandler(c echo.Context) error {
	path, err := verifySignedToken(c.QueryParam("token"))
	if err != nil {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Invalid or expired link"})
	}

	data, err := s.store.Get(c.Request().Context(), path)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Signature not found"})
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

// DeleteHandler removes the stored signature and clears its recorded path.
func (s *Service) DeleteHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	if err := s.store.Delete(ctx, objectPath(userID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Error().Err(err).Msg("Failed to delete signature object")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete signature"})
	}

	if err := s.queries.UpdateUserSignaturePath(ctx, userID, nil); err != nil {
		log.Error().Err(err).Msg("Failed to clear signature path")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to clear signature"})
	}

	return c.NoContent(http.StatusNoContent)
}
