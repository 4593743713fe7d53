package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qrcodesmart/qr-services/internal/qr"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/service"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth

	auth     *service.AuthService
	qrs      *service.QrService
	payments *service.PaymentService
	admin    *service.AdminService
}

func NewHandler(tokenAuth *jwtauth.JWTAuth, auth *service.AuthService, qrs *service.QrService,
	payments *service.PaymentService, admin *service.AdminService) *Handler {
	return &Handler{
		tokenAuth: tokenAuth,
		auth:      auth,
		qrs:       qrs,
		payments:  payments,
		admin:     admin,
	}
}

type Response struct {
	Message string      `json:"message,omitempty"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "qr service is running at port " + os.Getenv("QR_SERVICE_PORT"),
		Code:    200,
	})
}

// requester pulls the caller's identity out of the verified JWT claims.
func requester(r *http.Request) (primitive.ObjectID, map[string]interface{}, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	hexId, _ := claims["userId"].(string)
	id, err := primitive.ObjectIDFromHex(hexId)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	return id, claims, nil
}

// AdminOnly rejects callers whose token does not carry the admin role.
func (h *Handler) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || claims["role"] != "admin" {
			h.CreateResponse(w, Response{Code: 403, Error: "Admin access denied"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---------------- auth ----------------

func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: 400, Error: "Invalid request body"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.CreateResponse(w, Response{Code: 400, Error: "All fields required"})
		return
	}

	err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			h.CreateResponse(w, Response{Code: 400, Error: "User exists"})
			return
		}
		log.Errorf("signup failed: %v", err)
		h.CreateResponse(w, Response{Code: 500, Error: "Server error"})
		return
	}

	h.CreateResponse(w, Response{Code: 200, Message: "User created successfully"})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: 400, Error: "Invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		h.CreateResponse(w, Response{Code: 400, Error: "All fields required"})
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.CreateResponse(w, Response{Code: 400, Error: "Invalid credentials"})
			return
		}
		log.Errorf("login failed: %v", err)
		h.CreateResponse(w, Response{Code: 500, Error: "Server error"})
		return
	}

	h.CreateResponse(w, Response{Code: 200, Message: "Login successful", Data: map[string]any{
		"token": token,
		"user": map[string]any{
			"_id":          user.ID.Hex(),
			"name":         user.Name,
			"email":        user.Email,
			"subscription": user.Subscription,
			"role":         user.Role,
		},
	}})
}

// ---------------- qr ----------------

func (h *Handler) CreateQrHandler(w http.ResponseWriter, r *http.Request) {
	ownerId, claims, err := requester(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: 401, Error: "Invalid token"})
		return
	}
	subscription, _ := claims["subscription"].(string)

	var req service.CreateQrRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: 400, Error: "Invalid request body"})
		return
	}

	id, err := h.qrs.Create(r.Context(), ownerId, subscription, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingData):
			h.CreateResponse(w, Response{Code: 400, Error: "Missing required data"})
		case errors.Is(err, service.ErrCustomNeedsUser):
			h.CreateResponse(w, Response{Code: 400, Error: "Custom QR must have at least one user"})
		case errors.Is(err, service.ErrPremiumRequired):
			h.CreateResponse(w, Response{Code: 403, Error: "This feature requires a premium subscription"})
		case errors.Is(err, service.ErrFreeUserLimit):
			h.CreateResponse(w, Response{Code: 403, Error: "Free plan allows only 1 user in custom QR. Upgrade to premium for more."})
		default:
			log.Errorf("create qr failed: %v", err)
			h.CreateResponse(w, Response{Code: 500, Error: "Error creating QR"})
		}
		return
	}

	h.CreateResponse(w, Response{Code: 200, Data: map[string]string{"id": id}})
}

func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	ownerId, _, err := requester(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: 401, Error: "Invalid token"})
		return
	}

	data, err := h.qrs.Dashboard(r.Context(), ownerId)
	if err != nil {
		log.Errorf("dashboard failed for %s: %v", ownerId.Hex(), err)
		h.CreateResponse(w, Response{Code: 500, Error: "Failed to load dashboard"})
		return
	}

	h.CreateResponse(w, Response{Code: 200, Data: data})
}

func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stats, err := h.qrs.Stats(r.Context(), id)
	if err != nil {
		if errors.Is(err, qr.ErrNotFound) {
			h.CreateResponse(w, Response{Code: 404, Error: "QR code not found"})
			return
		}
		log.Errorf("stats failed for %s: %v", id, err)
		h.CreateResponse(w, Response{Code: 500, Error: "Server error"})
		return
	}

	h.CreateResponse(w, Response{Code: 200, Data: stats})
}

// ---------------- payments ----------------

func (h *Handler) CreateCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	userId, _, err := requester(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: 401, Error: "Invalid token"})
		return
	}

	var req struct {
		Pack string `json:"pack"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Pack == "" {
		h.CreateResponse(w, Response{Code: 400, Error: "Missing required fields"})
		return
	}

	url, err := h.payments.CreateCheckout(r.Context(), req.Pack, userId)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPack) {
			h.CreateResponse(w, Response{Code: 400, Error: "Invalid pack selected"})
			return
		}
		log.Errorf("checkout failed for %s: %v", userId.Hex(), err)
		h.CreateResponse(w, Response{Code: 500, Error: "Payment session failed"})
		return
	}

	h.CreateResponse(w, Response{Code: 200, Data: map[string]string{"url": url}})
}

// WebhookHandler consumes the provider callback; signature is over the raw
// body, so the body must not be decoded before verification.
func (h *Handler) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.CreateResponse(w, Response{Code: 400, Error: "Unreadable payload"})
		return
	}

	err = h.payments.HandleWebhook(r.Context(), payload, r.Header.Get("X-Webhook-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrBadSignature) || errors.Is(err, service.ErrMalformedWebhook) {
			h.CreateResponse(w, Response{Code: 400, Error: err.Error()})
			return
		}
		log.Errorf("webhook processing failed: %v", err)
		h.CreateResponse(w, Response{Code: 500, Error: "Server error"})
		return
	}

	h.CreateResponse(w, Response{Code: 200, Data: map[string]bool{"received": true}})
}

// ---------------- admin ----------------

func (h *Handler) AdminUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		log.Errorf("admin list users failed: %v", err)
		h.CreateResponse(w, Response{Code: 500, Error: "Server error"})
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: users})
}

func (h *Handler) AdminSetSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	userId, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.CreateResponse(w, Response{Code: 400, Error: "Invalid user id"})
		return
	}

	var req struct {
		Subscription string `json:"subscription"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: 400, Error: "Invalid request body"})
		return
	}

	if err := h.admin.SetSubscription(r.Context(), userId, req.Subscription); err != nil {
		if errors.Is(err, service.ErrInvalidSubscription) {
			h.CreateResponse(w, Response{Code: 400, Error: "Invalid subscription value"})
			return
		}
		log.Errorf("subscription update failed: %v", err)
		h.CreateResponse(w, Response{Code: 500, Error: "Server error"})
		return
	}

	h.CreateResponse(w, Response{Code: 200, Message: "Subscription updated successfully"})
}

func (h *Handler) AdminUserQrsHandler(w http.ResponseWriter, r *http.Request) {
	userId, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.CreateResponse(w, Response{Code: 400, Error: "Invalid user id"})
		return
	}

	qrs, err := h.admin.ListUserQrs(r.Context(), userId)
	if err != nil {
		log.Errorf("admin list qrs failed: %v", err)
		h.CreateResponse(w, Response{Code: 500, Error: "Server error"})
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: qrs})
}

func (h *Handler) AdminToggleQrHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	active, err := h.admin.ToggleQr(r.Context(), id)
	if err != nil {
		if errors.Is(err, qr.ErrNotFound) {
			h.CreateResponse(w, Response{Code: 404, Error: "QR not found"})
			return
		}
		log.Errorf("toggle qr failed: %v", err)
		h.CreateResponse(w, Response{Code: 500, Error: "Server error"})
		return
	}

	h.CreateResponse(w, Response{Code: 200, Message: "QR status updated", Data: map[string]bool{"active": active}})
}

func (h *Handler) AdminQrScansHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	scans, err := h.admin.RecentScans(r.Context(), id, limit)
	if err != nil {
		log.Errorf("admin scan history failed: %v", err)
		h.CreateResponse(w, Response{Code: 500, Error: "Server error"})
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: scans})
}
