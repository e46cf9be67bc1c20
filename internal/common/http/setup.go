package http

import (
	"net/http"

	"github.com/nikkune/paymybuddy/internal/common/constants"
	"github.com/nikkune/paymybuddy/internal/common/httpmetrics"
	"github.com/nikkune/paymybuddy/internal/common/logger"
)

// BuildBaseHandler wires the ambient middleware chain around the router:
// security headers, CORS, panic recovery, trace ids, body size limits and
// request metrics.
func BuildBaseHandler(log *logger.Logger, corsOrigin string, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	cors := CORSMiddleware(corsOrigin)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(cors(recovery(TraceIDMiddleware(maxRequestSize(httpmetrics.Wrap(handler))))))
}
