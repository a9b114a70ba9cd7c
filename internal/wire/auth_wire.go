package wire

import (
	"net/http"

	"hall-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

type middlewareFunc = func(http.Handler) http.Handler

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, auth, limit middlewareFunc) {
	// public, throttled against credential stuffing
	r.With(limit).Post("/register/", authHandler.Register)
	r.With(limit).Post("/login/", authHandler.Login)

	r.With(auth).Post("/logout/", authHandler.Logout)
}
