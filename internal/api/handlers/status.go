package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/cart-service/internal/utils/response"
)

const serviceVersion = "0.1"

type StatusHandler struct{}

func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

func (h *StatusHandler) Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		response.WriteJson(w, http.StatusOK, map[string]string{
			"status": "Cart Service is running",
			"docs":   "/docs",
		})

	}
}

func (h *StatusHandler) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		response.WriteJson(w, http.StatusOK, map[string]string{
			"status":  "alive",
			"service": "cart-service",
			"version": serviceVersion,
		})

	}
}
