/*
Package handler provides HTTP handler functions for user listing and conversation history.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/resp"
)

// HandleListUsers returns the id and username of every registered account,
// used by clients to render the contact list.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jwt.GetPayloadFromContext(r) == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		users, err := deps.DB.ListUsers(r.Context())
		if err != nil {
			logx.Error(err, "failed to list users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"users": users,
		})
	}
}

// HandleGetConversation returns the full message history between the
// authenticated user and the user named in the URL, in either direction,
// ordered by creation time.
func HandleGetConversation(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		otherUserID := chi.URLParam(r, "userID")
		if otherUserID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		messages, err := deps.DB.ConversationBetween(r.Context(), payload.UserID, otherUserID)
		if err != nil {
			logx.Error(err, "failed to load conversation", "user_id", payload.UserID, "other_user_id", otherUserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"messages": messages,
		})
	}
}
