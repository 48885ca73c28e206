// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, logging, tracing and compression are
// handled at this layer before requests are forwarded to the service layer.
package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/scrapegate/internal/app"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/service"
	"github.com/MKhiriev/scrapegate/internal/utils"
)

// auth is an HTTP middleware that enforces session bearer tokens.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it via [service.TokenService.ParseToken], and on success stores
// the session claims (email, session ID, device ID) in the request context
// with [utils.WithSession] before delegating to the next handler. The
// request-scoped logger is tagged with the email.
//
// The middleware rejects requests with HTTP 401 Unauthorized when:
//   - The "Authorization" header is absent ([ErrEmptyAuthorizationHeader]).
//   - The header is not "Bearer <token>" ([ErrInvalidAuthorizationHeader]).
//   - The token is expired, signed with another key or issued by someone else.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteError(w, http.StatusUnauthorized, ErrEmptyAuthorizationHeader.Error(), "")
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			utils.WriteError(w, http.StatusUnauthorized, ErrInvalidAuthorizationHeader.Error(), "")
			return
		}

		ctx := r.Context()
		token, err := h.services.TokenService.ParseToken(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
				log.Err(err).Msg("token rejected")
			default:
				log.Err(err).Msg("error occurred during parsing token")
			}
			utils.WriteError(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid, "")
			return
		}

		email, err := token.Email()
		if err != nil {
			log.Err(err).Msg("token has no subject")
			utils.WriteError(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid, "")
			return
		}

		ctx = utils.WithSession(ctx, utils.SessionClaims{
			Email:     email,
			SessionID: token.SessionID(),
			DeviceID:  token.DeviceID,
		})
		ctx = log.WithEmail(email).WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
