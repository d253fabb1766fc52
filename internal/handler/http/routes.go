package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init assembles the routing table and the ordered middleware pipeline.
//
// Exemptions from identity verification and payment gating:
//   - the upload route authenticates via its signed URL and is wrapped
//     only by the body cap and the timeout guard; it is excluded from
//     audit logging because artifacts are large
//   - the public query, global eviction, nonce, and internal cluster
//     routes take no authentication and no payment
//
// Everything else passes the full chain: audit → identity verification
// (with best-effort email binding) → payment gate → handler.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withCORS)

	router.With(h.withBodyLimit, h.withUploadTimeout).Post("/api/v1/upload/{deploymentId}/{signature}", h.upload)

	router.Group(func(r chi.Router) {
		r.Use(h.withBodyLimit)
		r.Use(h.withAudit)

		r.Get("/api/v1/public", h.public)
		r.Post("/api/v1/evict-globally", h.evictGlobally)
		r.Post("/api/v1/auth/nonce", h.authNonce)

		r.Post("/internal/cluster/join", h.clusterJoin)
		r.Post("/internal/cluster/evict", h.clusterEvict)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Use(h.payment)

			r.Post("/api/v1/register", h.register)
			r.Route("/api/v1/project/{projectID}", func(r chi.Router) {
				r.Get("/status", h.projectStatus)
				r.Post("/pay", h.projectPay)
			})
		})
	})

	return router
}
