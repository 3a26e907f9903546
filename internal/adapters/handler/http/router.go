package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(voteHandler *PollVoteHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/polls/{id}", func(r chi.Router) {
			r.Get("/votes", voteHandler.GetVotes)
			r.Post("/votes", voteHandler.CastVote)
			r.Post("/details", voteHandler.ImportDetails)
		})
	})

	return r
}
