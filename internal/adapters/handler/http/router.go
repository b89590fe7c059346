package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(
	auth *AuthMiddleware,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	pollHandler *PollHandler,
	commentHandler *CommentHandler,
	followHandler *FollowHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/google", authHandler.GoogleLogin)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Register)
			r.Get("/{id}", userHandler.GetUser)
			r.Get("/{id}/follow-stats", followHandler.FollowStats)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Get("/me", userHandler.GetMe)
				r.Post("/{id}/follow", followHandler.Follow)
				r.Delete("/{id}/follow", followHandler.Unfollow)
				r.Get("/{id}/follow", followHandler.IsFollowing)
			})
		})

		r.Route("/polls", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(auth.OptionalAuth)
				r.Get("/", pollHandler.ListPolls)
				r.Get("/{id}", pollHandler.GetPoll)
				r.Get("/{id}/comments", commentHandler.ListComments)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/", pollHandler.CreatePoll)
				r.Delete("/{id}", pollHandler.DeletePoll)
				r.Post("/{id}/votes", pollHandler.Vote)
				r.Get("/{id}/has-voted", pollHandler.HasVoted)
				r.Post("/{id}/comments", commentHandler.PostRootComment)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.With(auth.OptionalAuth).Get("/{id}/replies", commentHandler.ListReplies)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/{id}/replies", commentHandler.PostReply)
				r.Post("/{id}/like", commentHandler.LikeComment)
				r.Delete("/{id}/like", commentHandler.UnlikeComment)
				r.Delete("/{id}", commentHandler.DeleteComment)
			})
		})
	})

	return r
}
