package transport

import (
	"errors"
	"net/http"

	"rhp-backend/internal/apperrors"
	"rhp-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondWithServiceError maps service errors to HTTP responses. Errors
// outside the apperrors taxonomy are logged and hidden behind a 500.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var (
		notFound     *apperrors.NotFoundError
		badInput     *apperrors.BadInputError
		uploadFailed *apperrors.UploadFailedError
		conflict     *apperrors.ConflictError
	)

	switch {
	case errors.As(err, &notFound):
		middleware.RespondWithError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &badInput):
		var details map[string]any
		if badInput.Field != "" {
			details = map[string]any{"field": badInput.Field}
		}
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, badInput.Message, details)
	case errors.As(err, &uploadFailed):
		middleware.RespondWithError(w, http.StatusBadRequest, uploadFailed.Error())
	case errors.As(err, &conflict):
		middleware.RespondWithError(w, http.StatusConflict, conflict.Error())
	default:
		logger.Error("Request failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondWithDecodeError reports a body that failed to decode or validate.
func respondWithDecodeError(w http.ResponseWriter, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

// uuidParam reads a UUID path parameter, answering 400 when it is malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// nonNil makes empty lists render as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
