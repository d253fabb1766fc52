package http

import "net/http"

// maxCapturedBody bounds how much of a response body the audit logger
// retains for rendering. Bodies beyond the cap are still counted in size,
// so length-only log records stay accurate.
const maxCapturedBody = 1 << 20

// responseWriter is a decorator around [http.ResponseWriter] that records
// the status code, the total bytes written, and a bounded copy of the body
// as it is written, forwarding everything to the real writer. The audit
// logger inspects it after the downstream handler returns; handlers keep
// writing through the ordinary ResponseWriter interface, no method
// replacement involved.
type responseWriter struct {
	http.ResponseWriter

	// status is the HTTP status code recorded on the first WriteHeader
	// call; zero until a header is written.
	status int

	// wroteHeader guards against forwarding a second WriteHeader.
	wroteHeader bool

	// size is the running total of body bytes successfully written.
	size int

	// body accumulates written bytes up to maxCapturedBody.
	body []byte
}

// WriteHeader records the status code and forwards it to the underlying
// writer exactly once; duplicate calls are ignored, matching the contract
// of the standard library's response writer.
func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write forwards b, accumulating the byte count and a capped copy of the
// body. An implicit 200 header is recorded if none was written yet.
func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	if remaining := maxCapturedBody - len(w.body); remaining > 0 {
		if n <= remaining {
			w.body = append(w.body, b[:n]...)
		} else {
			w.body = append(w.body, b[:remaining]...)
		}
	}
	return n, err
}
