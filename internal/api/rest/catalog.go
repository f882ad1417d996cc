package rest

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/service"
)

type CatalogHandler struct {
	catalogSvc service.CatalogService
}

func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Query:           q.Get("q"),
		Type:            domain.ProductType(q.Get("type")),
		CategorySlug:    q.Get("category"),
		RentalAvailable: q.Get("rental") == "true",
		FeaturedOnly:    q.Get("featured") == "true",
	}
	if v, err := strconv.ParseInt(q.Get("max_price_cents"), 10, 64); err == nil && v > 0 {
		filter.MaxPriceCents = v
	}

	page, pageSize := pageParams(r)
	products, total, err := h.catalogSvc.SearchProducts(r.Context(), filter, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: products, Total: total, Page: page, PageSize: pageSize})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogSvc.GetProduct(r.Context(), domain.ID(mux.Vars(r)["id"]))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogSvc.GetProductBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

type productRequest struct {
	Name                   string   `json:"name"`
	Description            string   `json:"description"`
	Type                   string   `json:"type"`
	PriceCents             int64    `json:"price_cents"`
	Stock                  int32    `json:"stock"`
	CategoryID             string   `json:"category_id"`
	Images                 []string `json:"images"`
	RentalAvailable        bool     `json:"rental_available"`
	RentalPricePerDayCents int64    `json:"rental_price_per_day_cents"`
	IsFeatured             bool     `json:"is_featured"`
}

func (r productRequest) toDomain() *domain.Product {
	return &domain.Product{
		Name:                   r.Name,
		Description:            r.Description,
		Type:                   domain.ProductType(r.Type),
		PriceCents:             r.PriceCents,
		Stock:                  r.Stock,
		CategoryID:             domain.ID(r.CategoryID),
		Images:                 r.Images,
		RentalAvailable:        r.RentalAvailable,
		RentalPricePerDayCents: r.RentalPricePerDayCents,
		IsFeatured:             r.IsFeatured,
	}
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product := req.toDomain()
	if err := h.catalogSvc.CreateProduct(r.Context(), userIDFromRequest(r), product); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product := req.toDomain()
	product.ID = domain.ID(mux.Vars(r)["id"])
	if err := h.catalogSvc.UpdateProduct(r.Context(), userIDFromRequest(r), product); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogSvc.DeleteProduct(r.Context(), userIDFromRequest(r), domain.ID(mux.Vars(r)["id"])); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) ListSellerProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	products, total, err := h.catalogSvc.ListSellerProducts(r.Context(), userIDFromRequest(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: products, Total: total, Page: page, PageSize: pageSize})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogSvc.ListCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ParentID    string `json:"parent_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	cat := &domain.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.ParentID != "" {
		parentID := domain.ID(req.ParentID)
		cat.ParentID = &parentID
	}
	if err := h.catalogSvc.CreateCategory(r.Context(), cat); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cat)
}
