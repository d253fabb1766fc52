package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithUploadTimeout_HandlerFinishesInTime(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.UploadTimeout = time.Second

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"deploymentId":"d1"}`))
	})

	rec := httptest.NewRecorder()
	env.handler.withUploadTimeout(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/upload/d1/sig", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"deploymentId":"d1"}`, rec.Body.String())
}

func TestWithUploadTimeout_DeadlineExceeded(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.UploadTimeout = 20 * time.Millisecond

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// block until the guard cancels the context, then attempt a late
		// response the guard must swallow
		<-r.Context().Done()
		w.WriteHeader(http.StatusOK)
		n, err := w.Write([]byte("too late"))
		assert.NoError(t, err)
		assert.Equal(t, len("too late"), n)
	})

	rec := httptest.NewRecorder()
	env.handler.withUploadTimeout(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/upload/d1/sig", nil))

	assert.Equal(t, http.StatusRequestTimeout, rec.Code)
	assert.JSONEq(t, `{"error":"upload deadline exceeded"}`, rec.Body.String())
}

func TestWithUploadTimeout_TimeoutCommittedBeforeHandlerUnwinds(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.UploadTimeout = time.Millisecond

	// A handler that observes cancellation and returns without writing,
	// the upload handler's behavior during a timed-out stream. The 408
	// must be on the recorder the moment ServeHTTP returns; otherwise
	// net/http would commit an implicit empty 200 for the exchange.
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	for i := 0; i < 200; i++ {
		rec := httptest.NewRecorder()
		env.handler.withUploadTimeout(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/upload/d1/sig", nil))

		require.Equal(t, http.StatusRequestTimeout, rec.Code, "run %d: guard had not written when the handler chain returned", i)
		require.JSONEq(t, `{"error":"upload deadline exceeded"}`, rec.Body.String())
	}
}

func TestWithUploadTimeout_CancelsHandlerContext(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.UploadTimeout = 10 * time.Millisecond

	var ctxErr error
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		ctxErr = r.Context().Err()
	})

	env.handler.withUploadTimeout(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/upload/d1/sig", nil))

	assert.ErrorIs(t, ctxErr, context.Canceled)
}

func TestTimeoutWriter_SingleResponseOwnership(t *testing.T) {
	t.Run("handler first, expire is a no-op", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tw := &timeoutWriter{ResponseWriter: rec}

		tw.WriteHeader(http.StatusCreated)
		require.False(t, tw.expire())

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("expire first, handler writes swallowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tw := &timeoutWriter{ResponseWriter: rec}

		require.True(t, tw.expire())
		tw.WriteHeader(http.StatusOK)
		n, err := tw.Write([]byte("late body"))
		require.NoError(t, err)
		assert.Equal(t, len("late body"), n)

		assert.Equal(t, http.StatusRequestTimeout, rec.Code)
		assert.NotContains(t, rec.Body.String(), "late body")
	})

	t.Run("expire only fires once", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tw := &timeoutWriter{ResponseWriter: rec}

		assert.True(t, tw.expire())
		assert.False(t, tw.expire())
	})

	t.Run("write without explicit header implies 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tw := &timeoutWriter{ResponseWriter: rec}

		_, err := tw.Write([]byte("ok"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})
}
