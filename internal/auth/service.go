// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth issues write-guard tokens for the single reader of a Flute server.
//
// # Architecture
//
// There are no accounts. One bcrypt hash (AUTH_PASSWORD_HASH) gates token
// issuance, and one secret (AUTH_SECRET) signs the tokens. Reading is always
// open; the API router only requires a token for mutating requests.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/flute/internal/platform/apperr"
	"github.com/taibuivan/flute/internal/platform/constants"
	"github.com/taibuivan/flute/internal/platform/sec"
)

// Subject is the JWT subject of every write-guard token.
const Subject = "reader"

// ErrInvalidPassword is returned for a wrong password.
var ErrInvalidPassword = apperr.Unauthorized("Invalid password")

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for subject.
	GenerateAccessToken(subject string, timeToLive time.Duration) (string, error)
}

// TokenInput is the body of POST /auth/token.
type TokenInput struct {
	Password string `json:"password"`
}

// TokenResult is the response of POST /auth/token.
type TokenResult struct {
	AccessToken string `json:"access_token"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// Service implements the token use case.
//
// # Review Process
//
// This service is critical for security. Changes to the password check or
// token lifetime need a second pair of eyes.
type Service struct {
	passwordHash  string
	tokenProvider TokenProvider
	logger        *slog.Logger
}

// NewService constructs a new [Service].
func NewService(passwordHash string, tokenProvider TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		passwordHash:  passwordHash,
		tokenProvider: tokenProvider,
		logger:        logger,
	}
}

/*
IssueToken checks the password and signs a token.

Returns:
  - *TokenResult: The signed token and its lifetime
  - error: [ErrInvalidPassword] on mismatch
*/
func (service *Service) IssueToken(ctx context.Context, input TokenInput) (*TokenResult, error) {
	if !sec.CheckPasswordHash(input.Password, service.passwordHash) {
		service.logger.WarnContext(ctx, "auth_token_rejected")
		return nil, ErrInvalidPassword
	}

	token, err := service.tokenProvider.GenerateAccessToken(Subject, constants.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.InfoContext(ctx, "auth_token_issued")
	return &TokenResult{
		AccessToken: token,
		ExpiresIn:   int64(constants.AccessTokenTTL / time.Second),
	}, nil
}
