package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"
	commonhttp "github.com/nikkune/paymybuddy/internal/common/http"
	"github.com/nikkune/paymybuddy/internal/common/logger"
	"github.com/nikkune/paymybuddy/internal/session"
	"github.com/nikkune/paymybuddy/internal/user/domain"
	"github.com/nikkune/paymybuddy/internal/user/service"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=32"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

type addConnectionRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type Handler struct {
	users    *service.Service
	sessions *session.Manager
	errs     *commonhttp.ErrorHandler
	log      *logger.Logger
}

func NewHandler(users *service.Service, sessions *session.Manager, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		users:    users,
		sessions: sessions,
		errs:     commonhttp.NewErrorHandler(log),
		log:      log,
	}

	authed := sessions.Middleware(log)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(requestTimeout)(h.register)))
	mux.HandleFunc("/auth/login", commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(requestTimeout)(h.login)))
	mux.HandleFunc("/auth/logout", commonhttp.RequireMethod(http.MethodPost)(h.logout))
	mux.Handle("/users", authed(commonhttp.RequireMethod(http.MethodPut)(commonhttp.WithTimeout(requestTimeout)(h.updateProfile))))
	mux.Handle("/users/", authed(commonhttp.WithTimeout(requestTimeout)(h.connections)))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Registration failed", "invalid json")
		return
	}
	if fields, ok := commonhttp.ValidateRequest(req); !ok {
		commonhttp.WriteValidationError(w, "Registration failed", fields)
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// Duplicate email or username on registration reads as a bad
		// request, not a conflict on an existing resource.
		if domainErr, ok := commonerrors.AsDomainError(err); ok && domainErr.Kind() == commonerrors.KindConflict {
			commonhttp.WriteError(w, http.StatusBadRequest, "Registration failed", domainErr.Message())
			return
		}
		h.errs.HandleError(w, r, "Registration failed", err)
		return
	}

	h.issueSession(w, r, user)
	commonhttp.WriteSuccess(w, http.StatusCreated, "Registration successful", user.Summary())
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Login failed", "invalid json")
		return
	}
	if fields, ok := commonhttp.ValidateRequest(req); !ok {
		commonhttp.WriteValidationError(w, "Login failed", fields)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errs.HandleError(w, r, "Login failed", err)
		return
	}

	h.issueSession(w, r, user)
	commonhttp.WriteSuccess(w, http.StatusOK, "Login successful", user.Summary())
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w, r)
	commonhttp.WriteSuccess(w, http.StatusOK, "Logout successful", nil)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Profile update failed", "missing session")
		return
	}

	var req updateProfileRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Profile update failed", "invalid json")
		return
	}
	if fields, ok := commonhttp.ValidateRequest(req); !ok {
		commonhttp.WriteValidationError(w, "Profile update failed", fields)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), service.UpdateProfileInput{
		ID:       claims.UserID,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.HandleError(w, r, "Profile update failed", err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, "Profile updated", user.Summary())
}

// connections dispatches /users/{id}/connections and
// /users/{id}/connections/{peerId}.
func (h *Handler) connections(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Request failed", "missing session")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/users/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) < 2 || parts[1] != "connections" {
		commonhttp.WriteError(w, http.StatusNotFound, "Request failed", "not found")
		return
	}

	ownerID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Request failed", "invalid user id")
		return
	}
	if ownerID != claims.UserID {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Request failed", "cannot act for another user")
		return
	}

	switch {
	case len(parts) == 2 && r.Method == http.MethodGet:
		h.listConnections(w, r, ownerID)
	case len(parts) == 2 && r.Method == http.MethodPost:
		h.addConnection(w, r, ownerID)
	case len(parts) == 3 && r.Method == http.MethodDelete:
		peerID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			commonhttp.WriteError(w, http.StatusBadRequest, "Connection removal failed", "invalid peer id")
			return
		}
		h.removeConnection(w, r, ownerID, peerID)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Request failed", "method not allowed")
	}
}

func (h *Handler) listConnections(w http.ResponseWriter, r *http.Request, ownerID int64) {
	peers, err := h.users.ConnectionsOf(r.Context(), ownerID)
	if err != nil {
		h.errs.HandleError(w, r, "Connection listing failed", err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, summaries(peers))
}

func (h *Handler) addConnection(w http.ResponseWriter, r *http.Request, ownerID int64) {
	var req addConnectionRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Connection failed", "invalid json")
		return
	}
	if fields, ok := commonhttp.ValidateRequest(req); !ok {
		commonhttp.WriteValidationError(w, "Connection failed", fields)
		return
	}

	peers, err := h.users.AddConnection(r.Context(), ownerID, req.Email)
	if err != nil {
		h.errs.HandleError(w, r, "Connection failed", err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, summaries(peers))
}

func (h *Handler) removeConnection(w http.ResponseWriter, r *http.Request, ownerID, peerID int64) {
	peers, err := h.users.RemoveConnection(r.Context(), ownerID, peerID)
	if err != nil {
		h.errs.HandleError(w, r, "Connection removal failed", err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, summaries(peers))
}

func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, user domain.User) {
	token, err := h.sessions.Issue(user.ID, user.Username)
	if err != nil {
		h.log.Errorf("session issue failed for user %d: %v", user.ID, err)
		return
	}
	session.SetCookie(w, r, token, time.Now().Add(h.sessions.TTL()))
}

func summaries(users []domain.User) []domain.Summary {
	out := make([]domain.Summary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}
