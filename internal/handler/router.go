package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/order-service/internal/middleware"
)

func parseUserID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// SetupRouter настраивает HTTP-маршруты и middleware сервиса заказов.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.Logger(h.logger))

	r.Post("/register/", h.Register)
	r.Post("/token/", h.Token)
	r.Get("/health/", h.Health)

	r.Route("/orders", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Post("/", h.CreateOrder)
		r.Get("/user/{userID}/", h.ListUserOrders)
		r.Get("/{orderID}/", h.GetOrder)
		r.Patch("/{orderID}/", h.UpdateOrder)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}
