package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(handler.recoverMiddleware)
	r.Use(handler.loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/otp/request", handler.requestOTP)
			r.Post("/otp/verify", handler.verifyOTP)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/password/reset", handler.resetPassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/assessments", handler.submitAssessment)
			r.Get("/assessments/{id}/plan", handler.getPlan)
			r.Post("/photos/presign", handler.presignPhoto)
		})
	})

	return r
}
