package services

import (
	"errors"
	"net/http"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/analysis"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/hierarchy"
	"github.com/yungbote/seoplanner-backend/internal/platform/apierr"
)

// ToAPIError attaches an HTTP status to a service error.
func ToAPIError(err error) *apierr.Error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, seo.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, seo.ErrValidation):
		return apierr.New(http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, seo.ErrCycle), errors.Is(err, hierarchy.ErrTooDeep):
		return apierr.New(http.StatusUnprocessableEntity, "hierarchy_invalid", err)
	case errors.Is(err, seo.ErrConfirmationRequired):
		return apierr.New(http.StatusPreconditionRequired, "confirmation_required", err)
	case errors.Is(err, seo.ErrConflict):
		return apierr.New(http.StatusConflict, "conflict", err)
	case errors.Is(err, analysis.ErrNoGenerator):
		return apierr.New(http.StatusServiceUnavailable, "llm_unavailable", err)
	case errors.Is(err, seo.ErrRetryable):
		return apierr.New(http.StatusServiceUnavailable, "retryable", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal", err)
	}
}
