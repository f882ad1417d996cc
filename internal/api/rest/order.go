package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/service"
)

type OrderHandler struct {
	orderSvc         service.OrderService
	shippingFeeCents int64
}

func NewOrderHandler(orderSvc service.OrderService, shippingFeeCents int64) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc, shippingFeeCents: shippingFeeCents}
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Street     string `json:"street"`
		City       string `json:"city"`
		PostalCode string `json:"postal_code"`
		Phone      string `json:"phone"`
		Note       string `json:"note"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Street == "" || req.City == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "delivery street and city are required"})
		return
	}

	address := domain.DeliveryAddress{
		Street:     req.Street,
		City:       req.City,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
	}
	order, err := h.orderSvc.Checkout(r.Context(), userIDFromRequest(r), address, h.shippingFeeCents, req.Note)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.GetOrder(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	orders, total, err := h.orderSvc.ListCustomerOrders(r.Context(), userIDFromRequest(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: orders, Total: total, Page: page, PageSize: pageSize})
}

func (h *OrderHandler) ListSellerOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	orders, total, err := h.orderSvc.ListSellerOrders(r.Context(), userIDFromRequest(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: orders, Total: total, Page: page, PageSize: pageSize})
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orderSvc.UpdateStatus(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]), domain.OrderStatus(req.Status))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.Cancel(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
