package middleware

import (
	"log/slog"
	"net/http"

	"github.com/doughlab/cookieclicker/internal/api/apierr"
	"github.com/doughlab/cookieclicker/internal/middleware"
)

// Recovery converts handler panics into the API's JSON error envelope
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, writePanicResponse)
}

func writePanicResponse(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
