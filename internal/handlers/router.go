package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appmiddleware "github.com/statelab/statelab/internal/middleware"
)

// Router assembles the resource routes. Global middleware (request id,
// logging, CORS) is wired by the caller around this.
func Router(store Store, adminToken string) http.Handler {
	posts := NewPostsHandler(store)
	users := NewUsersHandler(store)

	r := chi.NewRouter()
	r.Get("/health", Health)

	r.Route("/api", func(r chi.Router) {
		// 30 requests per minute per IP for the public read surface
		publicLimiter := appmiddleware.NewRateLimiter(30, time.Minute)

		r.With(publicLimiter.Limit).Get("/posts", posts.List)
		r.With(publicLimiter.Limit).Get("/posts/search", posts.Search)
		r.With(publicLimiter.Limit).Get("/posts/with-authors", posts.ListWithAuthors)
		r.Post("/posts", posts.Create)

		r.With(publicLimiter.Limit).Get("/users", users.List)
		r.Post("/users", users.Create)

		// Update/delete are an extension of the public surface and stay
		// behind the static admin token.
		r.Route("/admin", func(r chi.Router) {
			r.Use(appmiddleware.Auth(adminToken))
			r.Put("/posts/{id}", posts.Update)
			r.Delete("/posts/{id}", posts.Delete)
			r.Put("/users/{id}", users.Update)
			r.Delete("/users/{id}", users.Delete)
		})
	})

	return r
}
