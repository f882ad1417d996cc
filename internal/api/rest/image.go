package rest

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/logger"
	"paraplus-backend/internal/service"
	"paraplus-backend/internal/storage"
)

type ImageHandler struct {
	store        storage.StorageInterface
	catalogSvc   service.CatalogService
	maxBytes     int64
	allowedTypes map[string]bool
}

func NewImageHandler(store storage.StorageInterface, catalogSvc service.CatalogService, maxFileSizeMB int64, allowedTypes []string) *ImageHandler {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = true
	}
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = 10
	}
	return &ImageHandler{
		store:        store,
		catalogSvc:   catalogSvc,
		maxBytes:     maxFileSizeMB << 20,
		allowedTypes: allowed,
	}
}

// UploadProductImage stores a multipart image and attaches its URL to
// the seller's product.
func (h *ImageHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	productID := domain.ID(mux.Vars(r)["id"])

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "file too large or malformed upload"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "image file is required"})
		return
	}
	defer file.Close()

	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	if len(h.allowedTypes) > 0 && !h.allowedTypes[contentType] {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("unsupported content type %q", contentType)})
		return
	}

	key := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	if err := h.store.SaveFile(key, file); err != nil {
		respondError(w, err)
		return
	}

	imageURL := h.store.PublicURL(key)
	if err := h.catalogSvc.AttachProductImage(r.Context(), userIDFromRequest(r), productID, imageURL); err != nil {
		// keep storage consistent with the catalog
		_ = h.store.DeleteFile(r.Context(), key)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"url": imageURL})
}

// ServeImage streams a stored image back to the client.
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	exists, _, err := h.store.FileExists(r.Context(), key)
	if err != nil {
		respondError(w, err)
		return
	}
	if !exists {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "image not found"})
		return
	}

	f, err := h.store.ReadFile(key)
	if err != nil {
		respondError(w, err)
		return
	}
	defer f.Close()

	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, f); err != nil {
		logger.Error("Failed to stream image", "key", key, "error", err)
	}
}
