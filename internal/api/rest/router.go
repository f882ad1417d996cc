package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/security"
)

// Handlers groups every HTTP handler wired into the router.
type Handlers struct {
	Auth         *AuthHandler
	Catalog      *CatalogHandler
	Cart         *CartHandler
	Order        *OrderHandler
	Rental       *RentalHandler
	Payment      *PaymentHandler
	Notification *NotificationHandler
	Image        *ImageHandler
}

// NewRouter builds the full API route table. Public routes cover
// authentication and catalog browsing; everything else requires a
// bearer token, with seller-only routes additionally gated by role.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/google", h.Auth.LoginWithGoogle).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)

	api.HandleFunc("/products", h.Catalog.SearchProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.Catalog.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/slug/{slug}", h.Catalog.GetProductBySlug).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.Catalog.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/images/{key}", h.Image.ServeImage).Methods(http.MethodGet)

	// Authenticated
	auth := api.NewRoute().Subrouter()
	auth.Use(AuthMiddleware(tokens))

	auth.HandleFunc("/auth/profile", h.Auth.GetProfile).Methods(http.MethodGet)
	auth.HandleFunc("/auth/profile", h.Auth.UpdateProfile).Methods(http.MethodPut)

	auth.HandleFunc("/cart", h.Cart.GetCart).Methods(http.MethodGet)
	auth.HandleFunc("/cart/items", h.Cart.AddItem).Methods(http.MethodPost)
	auth.HandleFunc("/cart/items/{productId}", h.Cart.RemoveItem).Methods(http.MethodDelete)
	auth.HandleFunc("/cart", h.Cart.Clear).Methods(http.MethodDelete)
	auth.HandleFunc("/cart/count", h.Cart.ItemCount).Methods(http.MethodGet)

	auth.HandleFunc("/orders", h.Order.Checkout).Methods(http.MethodPost)
	auth.HandleFunc("/orders", h.Order.ListMyOrders).Methods(http.MethodGet)
	auth.HandleFunc("/orders/{id}", h.Order.GetOrder).Methods(http.MethodGet)
	auth.HandleFunc("/orders/{id}/cancel", h.Order.Cancel).Methods(http.MethodPost)

	auth.HandleFunc("/rentals", h.Rental.Reserve).Methods(http.MethodPost)
	auth.HandleFunc("/rentals", h.Rental.ListMyRentals).Methods(http.MethodGet)
	auth.HandleFunc("/rentals/{id}", h.Rental.GetRental).Methods(http.MethodGet)
	auth.HandleFunc("/rentals/{id}/cancel", h.Rental.Cancel).Methods(http.MethodPost)

	auth.HandleFunc("/payments", h.Payment.RecordAttempt).Methods(http.MethodPost)
	auth.HandleFunc("/payments/{id}", h.Payment.GetPayment).Methods(http.MethodGet)
	auth.HandleFunc("/payments/{id}/succeed", h.Payment.MarkSucceeded).Methods(http.MethodPost)
	auth.HandleFunc("/payments/{id}/fail", h.Payment.MarkFailed).Methods(http.MethodPost)
	auth.HandleFunc("/payments/{id}/refund", h.Payment.Refund).Methods(http.MethodPost)

	auth.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	auth.HandleFunc("/notifications/{id}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	// Seller-only
	seller := auth.NewRoute().PathPrefix("/seller").Subrouter()
	seller.Use(RequireRole(domain.UserRoleSeller))

	seller.HandleFunc("/products", h.Catalog.CreateProduct).Methods(http.MethodPost)
	seller.HandleFunc("/products", h.Catalog.ListSellerProducts).Methods(http.MethodGet)
	seller.HandleFunc("/products/{id}", h.Catalog.UpdateProduct).Methods(http.MethodPut)
	seller.HandleFunc("/products/{id}", h.Catalog.DeleteProduct).Methods(http.MethodDelete)
	seller.HandleFunc("/products/{id}/images", h.Image.UploadProductImage).Methods(http.MethodPost)
	seller.HandleFunc("/categories", h.Catalog.CreateCategory).Methods(http.MethodPost)

	seller.HandleFunc("/orders", h.Order.ListSellerOrders).Methods(http.MethodGet)
	seller.HandleFunc("/orders/{id}/status", h.Order.UpdateStatus).Methods(http.MethodPut)

	seller.HandleFunc("/rentals", h.Rental.ListSellerRentals).Methods(http.MethodGet)
	seller.HandleFunc("/rentals/{id}/start", h.Rental.Start).Methods(http.MethodPost)
	seller.HandleFunc("/rentals/{id}/return", h.Rental.Return).Methods(http.MethodPost)
	seller.HandleFunc("/rentals/{id}/deposit", h.Rental.ReturnDeposit).Methods(http.MethodPost)

	// Liveness
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
