package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"
	"github.com/nikkune/paymybuddy/internal/common/httpmetrics"
	"github.com/nikkune/paymybuddy/internal/common/logger"
	"github.com/nikkune/paymybuddy/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError maps a service error to an HTTP response. failureMessage is the
// human envelope message ("Registration failed"); the machine-readable detail
// comes from the domain error itself.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, failureMessage string, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()

	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok {
		h.log.WithFields(ctx, logger.Fields{
			"error":  err.Error(),
			"action": "unhandled_error",
		}).Errorf("unhandled error: %v", err)

		metrics.HTTPErrorsTotal.WithLabelValues(
			strconv.Itoa(http.StatusInternalServerError),
			httpmetrics.NormalizePath(r.URL.Path),
			r.Method,
		).Inc()

		WriteError(w, http.StatusInternalServerError, failureMessage, "internal server error")
		return
	}

	status := domainErr.HTTPStatus()

	logFields := logger.Fields{
		"error_code": domainErr.Code(),
		"kind":       string(domainErr.Kind()),
		"status":     status,
		"action":     "domain_error",
	}

	if status >= http.StatusInternalServerError {
		h.log.WithFields(ctx, logFields).Errorf("domain error: %s", domainErr.Error())
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("domain error: %s", domainErr.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Kind()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteError(w, status, failureMessage, domainErr.Message())
}
