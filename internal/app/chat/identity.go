/*
Package chat contains the core logic for real-time direct messaging.

This file defines the Resolver, which turns a connection-establishment
credential into a resolved identity. Verification is a bounded, synchronous
computation with no side effects; a failed resolution leaves the connection
anonymous and is never fatal.
*/
package chat

import (
	"dmchat/internal/app/user"
	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
)

// Resolver verifies signed identity credentials.
type Resolver struct {
	secretKey string
}

// NewResolver constructs a Resolver using the given HMAC secret.
func NewResolver(secretKey string) *Resolver {
	return &Resolver{secretKey: secretKey}
}

// Resolve verifies the credential and returns the identity it asserts.
// A missing, malformed, or expired credential yields ErrInvalidCredential.
func (r *Resolver) Resolve(credential string) (user.User, *errs.CustomError) {
	if credential == "" {
		return user.User{}, errs.NewError(errs.ErrInvalidCredential)
	}

	payload, err := jwt.ParseToken(credential, r.secretKey)
	if err != nil {
		return user.User{}, errs.NewError(errs.ErrInvalidCredential)
	}

	if payload.UserID == "" {
		return user.User{}, errs.NewError(errs.ErrInvalidCredential)
	}

	return user.User{
		ID:       payload.UserID,
		Username: payload.Username,
	}, nil
}
