/*
Package handler provides the HTTP handler for attachment downloads.
*/
package handler

import (
	"net/http"
	"strings"
	"time"

	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/resp"
)

// PresignedURLDuration is the fixed duration for which a download URL is valid.
const PresignedURLDuration = 5 * time.Minute

// HandlePresignDownloadURL creates an HTTP HandlerFunc to generate a
// time-limited, pre-signed URL for a stored attachment. Only server-generated
// attachment keys are accepted, never arbitrary object paths.
func HandlePresignDownloadURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jwt.GetPayloadFromContext(r) == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		fileKey := r.URL.Query().Get("k")
		if fileKey == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if !strings.HasPrefix(fileKey, "attachments/") || strings.Contains(fileKey, "..") {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		url, err := deps.StorageService.PresignDownload(r.Context(), fileKey, PresignedURLDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"url":     url,
			"fileKey": fileKey,
		})
	}
}
