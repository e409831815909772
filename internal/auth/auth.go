// Package auth provides JWT-based authentication: issuing and verifying
// signed, time-limited tokens, the password login flow, and the HTTP
// middleware gating authenticated routes.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/todolists/internal/logger"
	"github.com/patric-chuzhbe/todolists/internal/models"
	"github.com/patric-chuzhbe/todolists/internal/user"
)

type userKeeper interface {
	GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, error)
	GetUserByUsername(ctx context.Context, username string, transaction *sql.Tx) (*user.User, bool, error)
}

// ErrInvalidToken is returned by ParseToken for malformed, mis-signed or
// expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// Auth handles user authentication and JWT token management.
type Auth struct {
	db userKeeper

	// tokenSigningSecretKey is the HMAC key used to sign tokens.
	tokenSigningSecretKey []byte

	// tokenTTL bounds a token's lifetime; expiry is the only revocation
	// mechanism.
	tokenTTL time.Duration
}

// Claims represents the JWT claims used by the system.
// It embeds standard JWT claims and adds a user-specific identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated user's ID.
const UserIDKey ContextKey = "userID"

// New creates a new Auth handler with the given user data access layer,
// signing secret and token lifetime.
func New(
	db userKeeper,
	tokenSigningSecretKey []byte,
	tokenTTL time.Duration,
) *Auth {
	return &Auth{
		db:                    db,
		tokenSigningSecretKey: tokenSigningSecretKey,
		tokenTTL:              tokenTTL,
	}
}

// BuildToken issues a signed token asserting userID, expiring after the
// configured lifetime. Signing is stateless.
func (a *Auth) BuildToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(a.tokenSigningSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies a token's signature and expiry and returns the user ID
// it asserts.
func (a *Auth) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.tokenSigningSecretKey, nil
		},
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}

// Login verifies the credentials and issues a token. An unknown username and
// a wrong password produce the same models.ErrInvalidCredentials, so the
// response cannot be used to enumerate usernames.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	usr, found, err := a.db.GetUserByUsername(ctx, username, nil)
	if err != nil {
		return "", err
	}
	if !found {
		return "", models.ErrInvalidCredentials
	}

	if !usr.CheckPassword(password) {
		return "", models.ErrInvalidCredentials
	}

	return a.BuildToken(usr.ID)
}

// Authenticate is an HTTP middleware gating authenticated routes. It
// extracts the bearer token from the Authorization header; when the token is
// missing or invalid it short-circuits with 401 without invoking the
// downstream handler. On success the resolved user ID is attached to the
// request context under UserIDKey.
func (a *Auth) Authenticate(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		tokenString := tokenFromAuthorizationHeader(request)
		if tokenString == "" {
			writeUnauthenticated(response)
			return
		}

		userID, err := a.ParseToken(tokenString)
		if err != nil {
			logger.Log.Debugln("Error calling the `a.ParseToken()`: ", zap.Error(err))
			writeUnauthenticated(response)
			return
		}

		usr, err := a.db.GetUserByID(request.Context(), userID, nil)
		if err != nil {
			logger.Log.Debugln("Error calling the `a.db.GetUserByID()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)
			return
		}
		if usr.ID == "" {
			writeUnauthenticated(response)
			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, usr.ID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// UserIDFromContext returns the authenticated user ID set by Authenticate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func tokenFromAuthorizationHeader(request *http.Request) string {
	tokenString := request.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		tokenString = strings.TrimSpace(tokenString[7:])
	}

	return tokenString
}

func writeUnauthenticated(response http.ResponseWriter) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(http.StatusUnauthorized)
	_, _ = response.Write([]byte(`{"message":"authentication required","kind":"unauthenticated"}`))
}
