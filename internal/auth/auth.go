/*
Package auth implements account provisioning and JWT-based request
authentication for the questionnaire API.
*/
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"activsante/internal/database"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const AccessTokenDuration = 12 * time.Hour

var queries *database.Queries

// InitAuth wires the package to the database layer.
func InitAuth(q *database.Queries) {
	queries = q
	log.Info().Msg("Auth package initialized.")
}

type JwtCustomClaims struct {
	UserID string `json:"user_id"` // external identity id (auth_user_id)
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        database.User `json:"user"`
}

func signToken(user database.User) (string, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return "", fmt.Errorf("SESSION_SECRET is not set")
	}

	claims := &JwtCustomClaims{
		UserID: user.AuthUserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

/* =================================================================================
									HANDLERS
=================================================================================*/

// SignupHandler creates a doctor account. Password hashes use bcrypt and live
// in a separate credentials table keyed by the external identity id.
func SignupHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Email == "" || len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and a password of at least 8 characters are required"})
	}

	if _, err := queries.GetUserByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Un compte avec cet email existe déjà. Veuillez vous connecter."})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
	}

	authUserID := uuid.New().String()
	var firstName, lastName *string
	if req.FirstName != "" {
		firstName = &req.FirstName
	}
	if req.LastName != "" {
		lastName = &req.LastName
	}

	user, err := queries.CreateUser(ctx, authUserID, req.Email, "doctor", firstName, lastName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create user")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
	}

	if err := queries.StoreCredentials(ctx, authUserID, string(hash)); err != nil {
		log.Error().Err(err).Msg("Failed to store credentials")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
	}

	token, err := signToken(user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign token")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create session"})
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(AccessTokenDuration.Seconds()),
		User:        user,
	})
}

// LoginHandler checks credentials and issues an access token.
func LoginHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	user, err := queries.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Email ou mot de passe incorrect"})
		}
		log.Error().Err(err).Msg("Login lookup failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Login failed"})
	}

	hash, err := queries.GetCredentials(ctx, user.AuthUserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Email ou mot de passe incorrect"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Email ou mot de passe incorrect"})
	}

	token, err := signToken(user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign token")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create session"})
	}

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(AccessTokenDuration.Seconds()),
		User:        user,
	})
}

/* =================================================================================
									MIDDLEWARE
=================================================================================*/

// JwtAuthMiddleware validates the bearer token and resolves the user into the
// echo context under "user" and "user_id".
func JwtAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		authHeader := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing bearer token"})
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		sessionSecret := os.Getenv("SESSION_SECRET")
		token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(sessionSecret), nil
		})
		if err != nil || !token.Valid {
			log.Info().Err(err).Msg("Token validation failed")
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		claims, ok := token.Claims.(*JwtCustomClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token claims"})
		}

		user, err := queries.GetUserByAuthID(ctx, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found"})
		}

		c.Set("user", &user)
		c.Set("user_id", claims.UserID)
		return next(c)
	}
}
