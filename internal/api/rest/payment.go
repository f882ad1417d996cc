package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/service"
)

type PaymentHandler struct {
	paymentSvc service.PaymentService
}

func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// RecordAttempt opens a pending payment against exactly one of an
// order or a rental.
func (h *PaymentHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID  string `json:"order_id"`
		RentalID string `json:"rental_id"`
		Method   string `json:"method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if (req.OrderID == "") == (req.RentalID == "") {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "exactly one of order_id or rental_id is required"})
		return
	}

	customerID := userIDFromRequest(r)
	method := domain.PaymentMethod(req.Method)

	var payment *domain.Payment
	var err error
	if req.OrderID != "" {
		payment, err = h.paymentSvc.RecordOrderAttempt(r.Context(), customerID, domain.ID(req.OrderID), method)
	} else {
		payment, err = h.paymentSvc.RecordRentalAttempt(r.Context(), customerID, domain.ID(req.RentalID), method)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) MarkSucceeded(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TransactionRef string `json:"transaction_ref"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	payment, err := h.paymentSvc.MarkSucceeded(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]), req.TransactionRef)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	payment, err := h.paymentSvc.MarkFailed(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]), req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	payment, err := h.paymentSvc.Refund(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.paymentSvc.GetPayment(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payment)
}
