package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type Handlers struct {
	Plan         *PlanHandler
	Availability *AvailabilityHandler
	Guest        *GuestHandler
	Poll         *PollHandler
	Vote         *VoteHandler
	User         *UserHandler
}

func NewHandler(h Handlers, sessions ports.SessionVerifier, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", GuestIDHeader, GuestPasswordHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Group(func(r chi.Router) {
		r.Use(Session(sessions))

		r.Get("/me", h.User.GetMe)

		r.Route("/plans", func(r chi.Router) {
			r.Post("/", h.Plan.CreatePlan)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Plan.GetPlan)
				r.Get("/grid", h.Availability.GetGrid)

				r.Get("/timeblocks", h.Availability.ListTimeblocks)
				r.Put("/timeblocks", h.Availability.ReplaceTimeblocks)
				r.Post("/timeblocks", h.Availability.MergeTimeblocks)
				r.Delete("/timeblocks", h.Availability.RevokeTimeblocks)

				r.Post("/guests/login", h.Guest.Login)

				r.Get("/polls", h.Poll.ListPlanPolls)
				r.Post("/polls", h.Poll.CreatePoll)
			})
		})

		r.Route("/polls/{id}", func(r chi.Router) {
			r.Get("/", h.Poll.GetPoll)
			r.Post("/options", h.Poll.AddOption)
			r.Post("/options/{optionId}/vote", h.Vote.VoteOnPoll)
			r.Delete("/options/{optionId}/vote", h.Vote.Unvote)
		})
	})

	return r
}
