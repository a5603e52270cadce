package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for the DM chat service.
// It includes standard claims required by the JWT specification and the identity claims
// bound to a connection once the credential is verified.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the opaque identifier of the account the credential was issued to.
	UserID string `json:"userId"`

	// Username is the display name shown to other users in presence lists and messages.
	Username string `json:"username"`
}
