package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	commonhttp "github.com/nikkune/paymybuddy/internal/common/http"
	"github.com/nikkune/paymybuddy/internal/common/logger"
	"github.com/nikkune/paymybuddy/internal/common/money"
	"github.com/nikkune/paymybuddy/internal/session"
	"github.com/nikkune/paymybuddy/internal/transfer/domain"
	"github.com/nikkune/paymybuddy/internal/transfer/service"
)

type transferRequest struct {
	ReceiverID  int64        `json:"receiverId" validate:"required,gt=0"`
	Description string       `json:"description" validate:"omitempty,max=255"`
	Amount      money.Amount `json:"amount" validate:"required"`
}

type Handler struct {
	transfers *service.Service
	errs      *commonhttp.ErrorHandler
	log       *logger.Logger
}

func NewHandler(transfers *service.Service, sessions *session.Manager, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		transfers: transfers,
		errs:      commonhttp.NewErrorHandler(log),
		log:       log,
	}

	authed := sessions.Middleware(log)

	mux := http.NewServeMux()
	mux.Handle("/transactions", authed(commonhttp.WithTimeout(requestTimeout)(h.collection)))
	mux.Handle("/transactions/", authed(commonhttp.RequireMethod(http.MethodGet)(commonhttp.WithTimeout(requestTimeout)(h.byID))))
	return mux
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.transfer(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Request failed", "method not allowed")
	}
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Transfer failed", "missing session")
		return
	}

	var req transferRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Transfer failed", decodeDetail(err))
		return
	}
	if fields, ok := commonhttp.ValidateRequest(req); !ok {
		commonhttp.WriteValidationError(w, "Transfer failed", fields)
		return
	}

	tx, err := h.transfers.Transfer(r.Context(), service.TransferInput{
		SenderID:    claims.UserID,
		ReceiverID:  req.ReceiverID,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		h.errs.HandleError(w, r, "Transfer failed", err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusCreated, "Transfer successful", tx)
}

// list serves the session user's history; with peerId it narrows to the
// traffic between the two users.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Transaction listing failed", "missing session")
		return
	}

	userID := claims.UserID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			commonhttp.WriteError(w, http.StatusBadRequest, "Transaction listing failed", "invalid userId")
			return
		}
		if parsed != claims.UserID {
			commonhttp.WriteError(w, http.StatusUnauthorized, "Transaction listing failed", "cannot act for another user")
			return
		}
		userID = parsed
	}

	if raw := r.URL.Query().Get("peerId"); raw != "" {
		peerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			commonhttp.WriteError(w, http.StatusBadRequest, "Transaction listing failed", "invalid peerId")
			return
		}
		list, err := h.transfers.TransactionsBetween(r.Context(), userID, peerID)
		if err != nil {
			h.errs.HandleError(w, r, "Transaction listing failed", err)
			return
		}
		writeList(w, list)
		return
	}

	list, err := h.transfers.TransactionsOf(r.Context(), userID)
	if err != nil {
		h.errs.HandleError(w, r, "Transaction listing failed", err)
		return
	}
	writeList(w, list)
}

func (h *Handler) byID(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Transaction lookup failed", "missing session")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/transactions/")
	id, err := strconv.ParseInt(strings.Trim(raw, "/"), 10, 64)
	if err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Transaction lookup failed", "invalid transaction id")
		return
	}

	tx, err := h.transfers.TransactionByID(r.Context(), id)
	if err != nil {
		h.errs.HandleError(w, r, "Transaction lookup failed", err)
		return
	}
	if tx.SenderID != claims.UserID && tx.ReceiverID != claims.UserID {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Transaction lookup failed", "cannot act for another user")
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, "Transaction found", tx)
}

// decodeDetail keeps amount parse failures readable instead of collapsing
// them into "invalid json".
func decodeDetail(err error) string {
	if errors.Is(err, money.ErrMalformed) || errors.Is(err, money.ErrTooManyFractions) || errors.Is(err, money.ErrOutOfRange) {
		return err.Error()
	}
	return "invalid json"
}

func writeList(w http.ResponseWriter, list []domain.Transaction) {
	if list == nil {
		list = []domain.Transaction{}
	}
	commonhttp.WriteJSON(w, http.StatusOK, list)
}
