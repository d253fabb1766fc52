package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/overlaydev/cars-node/internal/logger"
)

// auditBodyLimit is the rendered-length threshold above which a body is
// logged as a length-only record instead of content.
const auditBodyLimit = 800

// maxBodyBytes caps structured and binary request bodies at 1 GiB.
const maxBodyBytes = 1 << 30

// withBodyLimit bounds the request body before anything buffers it.
func (h *Handler) withBodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// withAudit records every exchange it wraps: method and path on entry, a
// truncation-bounded rendering of the request body, then status, duration,
// and a rendering of the response body on completion. The upload route is
// mounted outside this middleware; its bodies are too large to audit.
//
// Logging never fails the request. A body that cannot be rendered is
// reported as present-but-unrenderable and the exchange continues.
func (h *Handler) withAudit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()
		uri := r.RequestURI
		method := r.Method

		log.Info().Str("method", method).Str("uri", uri).Msg("incoming request")

		if r.Body != nil && r.ContentLength != 0 {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				log.Warn().Err(err).Msg("request body present but unreadable")
			} else {
				r.Body = io.NopCloser(bytes.NewReader(body))
				logRequestBody(log, r.Header.Get("Content-Type"), body)
			}
		}

		lw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(lw, r)

		duration := time.Since(start)

		log.Info().
			Str("method", method).
			Str("uri", uri).
			Int("status", lw.status).
			Dur("duration", duration).
			Msg("outgoing response")

		logResponseBody(log, lw.Header().Get("Content-Type"), lw.body)
	})
}

// logRequestBody applies the truncation policy to an inbound body:
// structured bodies render as indented JSON, binary bodies decode as text;
// either logs content at or under the threshold and a length-only record
// above it.
func logRequestBody(log *logger.Logger, contentType string, body []byte) {
	if len(body) == 0 {
		return
	}

	switch {
	case isJSONContent(contentType):
		rendered, ok := renderJSON(body)
		if !ok {
			log.Info().Int("length", len(body)).Msg("request body present but unrenderable")
			return
		}
		if len(rendered) > auditBodyLimit {
			log.Info().Int("length", len(rendered)).Msg("request body (object, truncated)")
			return
		}
		log.Info().RawJSON("body", compactJSON(body)).Msg("request body")
	default:
		text := string(body)
		if len(text) > auditBodyLimit {
			log.Info().Int("length", len(text)).Msg("request body (raw, truncated)")
			return
		}
		log.Info().Str("body", text).Msg("request body (raw)")
	}
}

// logResponseBody applies the same threshold to the captured outbound
// body, with the extra plain-text case: short text logs as {body: ...},
// long text as a length-only record.
func logResponseBody(log *logger.Logger, contentType string, body []byte) {
	if len(body) == 0 {
		return
	}

	switch {
	case isJSONContent(contentType):
		rendered, ok := renderJSON(body)
		if !ok {
			log.Info().Int("length", len(body)).Msg("response body present but unrenderable")
			return
		}
		if len(rendered) > auditBodyLimit {
			log.Info().Int("length", len(rendered)).Msg("response body (object, truncated)")
			return
		}
		log.Info().RawJSON("body", compactJSON(body)).Msg("response body")
	case isBinaryContent(contentType):
		text := string(body)
		if len(text) > auditBodyLimit {
			log.Info().Int("length", len(text)).Msg("response body (raw, truncated)")
			return
		}
		log.Info().Str("body", text).Msg("response body (raw)")
	default:
		text := string(body)
		if len(text) > auditBodyLimit {
			log.Info().Int("length", len(text)).Msg("response body (string, truncated)")
			return
		}
		log.Info().Str("body", text).Msg("response body")
	}
}

// renderJSON reports the indented rendering of a JSON body, mirroring how
// clients pretty-print it. ok is false for bodies that are not valid JSON.
func renderJSON(body []byte) (string, bool) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return "", false
	}
	return buf.String(), true
}

// compactJSON strips insignificant whitespace so RawJSON embeds one clean
// object. The input is known-valid by the time this runs.
func compactJSON(body []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return body
	}
	return buf.Bytes()
}

func isJSONContent(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}

func isBinaryContent(contentType string) bool {
	return strings.Contains(contentType, "application/octet-stream")
}
