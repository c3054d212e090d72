// Package handler содержит HTTP-обработчики API сервиса заказов.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/order-service/internal/middleware"
	"github.com/mmeshcher/order-service/internal/model"
	"github.com/mmeshcher/order-service/internal/repository"
	"github.com/mmeshcher/order-service/internal/service"
	"github.com/mmeshcher/order-service/internal/validation"
)

// AuthService определяет контракт аутентификации, используемый HTTP-обработчиками.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// OrderService определяет контракт операций над заказами.
type OrderService interface {
	Create(ctx context.Context, userID int64, items []model.OrderItem, totalPrice float64) (*model.Order, error)
	Get(ctx context.Context, orderID string, requesterID int64) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, requesterID int64, status model.OrderStatus) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
}

// Pinger проверяет доступность зависимости для health-проверки.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler реализует HTTP-обработчики API сервиса заказов.
type Handler struct {
	auth           AuthService
	orders         OrderService
	db             Pinger
	cache          Pinger
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(auth AuthService, orders OrderService, db, cache Pinger, logger *zap.Logger, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{
		auth:           auth,
		orders:         orders,
		db:             db,
		cache:          cache,
		logger:         logger,
		authMiddleware: authMW,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Register обрабатывает регистрацию нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if !validation.IsValidEmail(req.Email) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid email address")
		return
	}
	if !validation.IsValidPassword(req.Password) {
		writeError(w, http.StatusUnprocessableEntity, "Password must be at least 6 characters")
		return
	}

	u, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		h.logger.Error("register user error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	})
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token выполняет аутентификацию пользователя и возвращает bearer-токен.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "Email and password are required")
		return
	}

	accessToken, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		h.logger.Error("authenticate user error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

type createOrderRequest struct {
	Items      []model.OrderItem `json:"items"`
	TotalPrice float64           `json:"total_price"`
}

type orderResponse struct {
	ID         string            `json:"id"`
	UserID     int64             `json:"user_id"`
	Items      []model.OrderItem `json:"items"`
	TotalPrice float64           `json:"total_price"`
	Status     string            `json:"status"`
	CreatedAt  string            `json:"created_at"`
}

func toOrderResponse(o *model.Order) orderResponse {
	return orderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		Items:      o.Items,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
	}
}

// CreateOrder создаёт новый заказ текущего пользователя.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if err := validation.ValidateOrder(req.Items, req.TotalPrice); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	order, err := h.orders.Create(r.Context(), userID, req.Items, req.TotalPrice)
	if err != nil {
		h.logger.Error("create order error", zap.Error(err), zap.Int64("userID", userID))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// GetOrder возвращает заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if _, err := uuid.Parse(orderID); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid order id")
		return
	}

	order, err := h.orders.Get(r.Context(), orderID, userID)
	if err != nil {
		h.writeOrderError(w, err, orderID)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

type updateOrderRequest struct {
	Status string `json:"status"`
}

// UpdateOrder меняет статус заказа. Любой статус может заменить любой другой.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if _, err := uuid.Parse(orderID); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid order id")
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	status := model.OrderStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "Invalid order status")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, userID, status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			writeError(w, http.StatusUnprocessableEntity, "Invalid order status")
			return
		}
		h.writeOrderError(w, err, orderID)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// ListUserOrders возвращает все заказы указанного пользователя.
// Смотреть чужие заказы запрещено.
func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	userID, err := parseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid user id")
		return
	}

	if requesterID != userID {
		writeError(w, http.StatusForbidden, "Not allowed")
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list orders error", zap.Error(err), zap.Int64("userID", userID))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeOrderError(w http.ResponseWriter, err error, orderID string) {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not allowed")
	default:
		h.logger.Error("order operation error", zap.Error(err), zap.String("orderID", orderID))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Not authenticated")
}

type healthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health возвращает состояние сервиса и его зависимостей. Ответ всегда 200:
// деградация отражается в теле, а не в статусе.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}

	status := "healthy"
	if err := h.db.Ping(r.Context()); err != nil {
		services["postgres"] = "unavailable"
		status = "degraded"
	}
	if err := h.cache.Ping(r.Context()); err != nil {
		services["redis"] = "unavailable"
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:   status,
		Services: services,
	})
}
