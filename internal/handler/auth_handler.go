/*
Package handler provides HTTP handler functions for account registration, login, and session management.
*/
package handler

import (
	"net/http"
	"regexp"
	"unicode/utf8"

	"dmchat/internal/app/db"
	"dmchat/internal/app/user"
	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/req"
	"dmchat/internal/pkg/resp"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{4,20}$`)

// setIdentityCookie writes the signed credential as an HTTP-only cookie. In
// production the cookie must cross origins (SameSite=None requires Secure);
// development keeps Lax so plain-HTTP local setups work.
func setIdentityCookie(w http.ResponseWriter, deps *AppDeps, token string, maxAge int) {
	sameSite := http.SameSiteNoneMode
	secure := true
	if deps.Config.Environment == "development" {
		sameSite = http.SameSiteLaxMode
		secure = false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     jwt.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

// issueIdentity generates a signed credential for the account and sets it as
// the identity cookie.
func issueIdentity(w http.ResponseWriter, deps *AppDeps, account db.User) (string, error) {
	payload := &jwt.Payload{
		UserID:   account.ID,
		Username: account.Username,
	}

	token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.IdentityExpiration)
	if err != nil {
		return "", err
	}

	setIdentityCookie(w, deps, token, int(jwt.IdentityExpiration.Seconds()))
	return token, nil
}

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister processes the request to create a new user account with only username and password.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !usernameRegex.MatchString(input.Username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := user.HashPassword(input.Password)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		account, err := deps.DB.CreateUser(r.Context(), input.Username, hashedPassword)
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("registration conflict: username already exists", "username", input.Username)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		token, err := issueIdentity(w, deps, account)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user": user.User{
				ID:       account.ID,
				Username: account.Username,
			},
		})
	}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies user credentials and issues a signed identity credential.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		account, err := deps.DB.GetUserByUsername(r.Context(), input.Username)
		if err != nil {
			logx.Warn("login: user fetch failed", "username", input.Username, "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := user.ComparePassword(account.PasswordHash, input.Password); err != nil {
			logx.Warn("login: password mismatch", "username", input.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		token, err := issueIdentity(w, deps, account)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user": user.User{
				ID:       account.ID,
				Username: account.Username,
			},
		})
	}
}

// HandleLogout clears the identity cookie.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setIdentityCookie(w, deps, "", -1)
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleGetProfile echoes the identity asserted by a valid credential.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, user.User{
			ID:       payload.UserID,
			Username: payload.Username,
		})
	}
}
