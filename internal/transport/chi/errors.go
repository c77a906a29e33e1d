package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/logger"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrNotConnected, http.StatusBadRequest, true),
	sentinelHandler(domain.ErrInvalidURI, http.StatusBadRequest, false),
	sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, false),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, true),
}

// sentinelHandler matches a single sentinel error. With bare set the
// sentinel's own message is sent; otherwise the full wrapped message.
func sentinelHandler(sentinel error, status int, bare bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := err.Error()
		if bare {
			msg = sentinel.Error()
		}
		writeError(w, status, msg)
		return true
	}
}

// handleDomainError maps err to a status. Unmatched errors are 500 and
// carry the underlying message.
func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
