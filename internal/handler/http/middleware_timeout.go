package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/models"
)

// withUploadTimeout bounds the large-upload route. When the deadline
// elapses before the handler completes, the guard writes the timeout
// response itself exactly once, cancels the handler's context, and marks
// the exchange expired: any later write from any stage is swallowed, so a
// timed-out request can never produce a second response.
//
// Expiry and cancellation are one ordered event: the single timer writes
// the 408 through expire() and only then cancels the handler's context.
// A handler observing ctx.Done() can therefore rely on the timeout
// response already being on the wire; there is no window where the
// handler unwinds first and an implicit empty 200 is committed.
//
// Only the upload route carries this guard; uploads are streamed and may
// legitimately run far longer than ordinary requests.
func (h *Handler) withUploadTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		tw := &timeoutWriter{ResponseWriter: w}

		timer := time.AfterFunc(h.cfg.UploadTimeout, func() {
			if tw.expire() {
				log.Warn().Str("uri", r.RequestURI).Dur("deadline", h.cfg.UploadTimeout).Msg("upload deadline exceeded")
			}
			cancel()
		})
		defer timer.Stop()

		next.ServeHTTP(tw, r.WithContext(ctx))
	})
}

// timeoutWriter enforces the single-response invariant around an upload:
// whichever of the handler and the deadline gets to the writer first owns
// the response, and the other side's writes become no-ops.
type timeoutWriter struct {
	http.ResponseWriter

	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func (tw *timeoutWriter) WriteHeader(statusCode int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.wroteHeader = true
	tw.ResponseWriter.WriteHeader(statusCode)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		// response already sent by the timeout; pretend success so the
		// handler unwinds without a cascade of write errors
		return len(b), nil
	}
	if !tw.wroteHeader {
		tw.wroteHeader = true
		tw.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

// expire sends the timeout response if the handler has not responded yet.
// It reports whether this call took ownership of the response.
func (tw *timeoutWriter) expire() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.wroteHeader {
		return false
	}
	tw.timedOut = true

	body, err := json.Marshal(models.ErrorResponse{Error: "upload deadline exceeded"})
	tw.ResponseWriter.Header().Set("Content-Type", "application/json")
	tw.ResponseWriter.WriteHeader(http.StatusRequestTimeout)
	if err == nil {
		_, _ = tw.ResponseWriter.Write(body)
	}

	return true
}
