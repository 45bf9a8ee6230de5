package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/cart-service/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/cart-service/internal/errors"
	"github.com/aaravmahajanofficial/cart-service/internal/models"
	service "github.com/aaravmahajanofficial/cart-service/internal/services"
	"github.com/aaravmahajanofficial/cart-service/internal/utils"
	"github.com/aaravmahajanofficial/cart-service/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(service service.CartService) *CartHandler {
	return &CartHandler{
		cartService: service,
		validator:   validator.New(),
	}
}

// authorize enforces that the verified caller identity equals the user_id
// path segment. The comparison is exact string equality and runs before any
// storage access, so a mismatch is 403 regardless of whether the cart exists.
func authorize(w http.ResponseWriter, r *http.Request) (string, bool) {

	logger := middleware.LoggerFromContext(r.Context())

	userID := r.PathValue("user_id")

	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		logger.Warn("Request reached cart handler without identity in context")
		response.Error(w, appErrors.UnauthorizedError("Authentication required"))
		return "", false
	}

	if caller != userID {
		logger.Warn("Path user does not match token subject", slog.String("path_user", userID))
		response.Error(w, appErrors.ForbiddenError("Access denied: user_id in path must match token subject"))
		return "", false
	}

	return userID, true
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		userID, ok := authorize(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), userID)

		if err != nil {
			logger.Error("Failed to fetch cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.WriteJson(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		userID, ok := authorize(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest

		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, appErrors.ValidationError(err.Error()))
			return
		}

		// quantity defaults to 1 when omitted
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		if err := h.validator.Struct(req); err != nil {
			if validationErrs, ok := err.(validator.ValidationErrors); ok {
				logger.Warn("Add-item payload validation failed", slog.String("error", validationErrs.Error()))
				response.ValidationError(w, validationErrs)
				return
			}

			logger.Error("Unexpected validation error", slog.String("error", err.Error()))
			response.Error(w, appErrors.InternalError("An unexpected error occurred"))
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), userID, &req)

		if err != nil {
			logger.Error("Failed to add item to cart", slog.Int("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.Int("productId", req.ProductID), slog.Int("quantity", req.Quantity))
		response.WriteJson(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		userID, ok := authorize(w, r)
		if !ok {
			return
		}

		productID, err := strconv.Atoi(r.PathValue("product_id"))
		if err != nil {
			logger.Warn("Non-integer product_id in path", slog.String("product_id", r.PathValue("product_id")))
			response.Error(w, appErrors.ValidationError("product_id must be an integer"))
			return
		}

		result, err := h.cartService.RemoveItem(r.Context(), userID, productID)

		if err != nil {
			if appErr, ok := appErrors.IsAppError(err); ok && appErr.Code == appErrors.ErrCodeNotFound {
				logger.Warn("Item not found in cart", slog.Int("productId", productID))
			} else {
				logger.Error("Failed to remove item from cart", slog.Int("productId", productID), slog.String("error", err.Error()))
			}
			response.Error(w, err)
			return
		}

		logger.Info("Item removed from cart", slog.Int("productId", productID))
		response.WriteJson(w, http.StatusOK, result)

	}
}
