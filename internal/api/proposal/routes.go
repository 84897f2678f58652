package proposal

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers proposal routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/proposal", func(r chi.Router) {
		r.Post("/", h.GenerateProposal)
		r.Post("/upload", h.GenerateProposalFromFile)
		r.Get("/", h.ListRuns)
		r.Get("/{id}", h.GetRun)
		r.Get("/{id}/result", h.GetResult)
	})

	r.Post("/analyze", h.AnalyzeDocuments)
	r.Post("/extract-rfp", h.ExtractRequirements)
}
