package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func (h *RentalHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID       string `json:"product_id"`
		DateStart       string `json:"date_start"`
		DateEnd         string `json:"date_end"`
		DepositCents    int64  `json:"deposit_cents"`
		DeliveryAddress *struct {
			Street     string `json:"street"`
			City       string `json:"city"`
			PostalCode string `json:"postal_code"`
			Phone      string `json:"phone"`
		} `json:"delivery_address"`
		Note string `json:"note"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	// absent address means pickup at the seller
	var address *domain.DeliveryAddress
	if req.DeliveryAddress != nil {
		if req.DeliveryAddress.Street == "" || req.DeliveryAddress.City == "" {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: "delivery street and city are required"})
			return
		}
		address = &domain.DeliveryAddress{
			Street:     req.DeliveryAddress.Street,
			City:       req.DeliveryAddress.City,
			PostalCode: req.DeliveryAddress.PostalCode,
			Phone:      req.DeliveryAddress.Phone,
		}
	}

	rental, err := h.rentalSvc.Reserve(r.Context(), userIDFromRequest(r), domain.ID(req.ProductID), req.DateStart, req.DateEnd, req.DepositCents, address, req.Note)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalSvc.GetRental(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ListMyRentals(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	rentals, total, err := h.rentalSvc.ListCustomerRentals(r.Context(), userIDFromRequest(r), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: rentals, Total: total, Page: page, PageSize: pageSize})
}

func (h *RentalHandler) ListSellerRentals(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	rentals, total, err := h.rentalSvc.ListSellerRentals(r.Context(), userIDFromRequest(r), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: rentals, Total: total, Page: page, PageSize: pageSize})
}

func (h *RentalHandler) Start(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalSvc.Start(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalSvc.Return(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalSvc.Cancel(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ReturnDeposit(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalSvc.ReturnDeposit(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"]))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}
