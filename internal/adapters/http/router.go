package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KOSASIH/nexus-revoluter/internal/application"
	"github.com/KOSASIH/nexus-revoluter/internal/ports"
)

type Handler struct {
	service  *application.Service
	verifier ports.TokenVerifier
}

func NewHandler(service *application.Service, verifier ports.TokenVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Route("/custody", func(r chi.Router) {
			r.Get("/locks/{lock_id}", handler.getLock)
			r.Get("/nexus-contract", handler.getNexusContract)
			r.Get("/kyc/{account}", handler.getKYCStatus)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/locks", handler.createLock)
				r.Post("/locks/nft", handler.createNFTLock)
				r.Post("/locks/token", handler.createTokenLock)
				r.Post("/locks/batch", handler.createBatchLocks)
				r.Post("/locks/{lock_id}/approve", handler.approveLock)
				r.Post("/locks/{lock_id}/release", handler.releaseLock)
				r.Put("/nexus-contract", handler.updateNexusContract)
			})
		})

		r.Route("/staking", func(r chi.Router) {
			r.Get("/stakes/{owner}", handler.getStake)
			r.Get("/rewards/{owner}", handler.getReward)
			r.Get("/reward-rate", handler.getRewardRate)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/stakes", handler.stake)
				r.Post("/unstake", handler.unstake)
				r.Put("/reward-rate", handler.updateRewardRate)
			})
		})

		r.Route("/governance", func(r chi.Router) {
			r.Get("/proposals/{proposal_id}", handler.getProposal)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/proposals", handler.createProposal)
				r.Post("/proposals/{proposal_id}/votes", handler.vote)
				r.Post("/proposals/{proposal_id}/execute", handler.executeProposal)
			})
		})

		r.Route("/nft", func(r chi.Router) {
			r.Get("/collection", handler.getCollection)
			r.Get("/{token_id}", handler.getNFT)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/mint", handler.mintNFT)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/roles/grant", handler.grantRole)
			r.Post("/roles/revoke", handler.revokeRole)
			r.Post("/pause", handler.pause)
			r.Post("/unpause", handler.unpause)
		})
	})
	return r
}
