package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	"filevault/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Errors that do not
// carry a status are logged with their cause and reported as a bare 500.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		status := httpErr.StatusCode()
		if status >= http.StatusInternalServerError {
			logger.Error("upstream failure", "status", status, "error", err)
		}
		httputil.RespondError(w, status, publicMessage(httpErr))
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidOperation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	default:
		logger.Error("unexpected error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// publicMessage hides provider details behind an upstream error's message
func publicMessage(err domain.HTTPError) string {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Message
	}
	return err.Error()
}

// requireUser returns the authenticated user ID, or writes a 401
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// parsePage reads page, limit, sort_by and sort_order. Defaults and range
// checks are left to the service.
func parsePage(r *http.Request) (models.PageRequest, error) {
	page, err := httputil.QueryInt(r, "page", 0)
	if err != nil {
		return models.PageRequest{}, domain.NewValidation(err.Error())
	}
	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		return models.PageRequest{}, domain.NewValidation(err.Error())
	}
	if page < 0 || limit < 0 {
		return models.PageRequest{}, domain.NewValidation("page and limit must be positive")
	}

	q := r.URL.Query()
	return models.PageRequest{
		Page:      page,
		Limit:     limit,
		SortBy:    models.SortField(q.Get("sort_by")),
		SortOrder: models.SortOrder(q.Get("sort_order")),
	}, nil
}

// favoriteMessage is the toggle outcome shown to the user
func favoriteMessage(kind string, isFavorite bool) string {
	if isFavorite {
		return kind + " added to favorites"
	}
	return kind + " removed from favorites"
}
