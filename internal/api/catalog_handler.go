package api

import (
	"net/http"

	"github.com/autofleet/garage-api/internal/api/shared"
	"github.com/autofleet/garage-api/internal/store"
)

// CatalogHandler serves the public read-only reference data: brands,
// car models and colors. Catalog rows come from seed migrations and
// have no write endpoints.
type CatalogHandler struct {
	brandStore    store.BrandStore
	carModelStore store.CarModelStore
	colorStore    store.ColorStore
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	brandStore store.BrandStore,
	carModelStore store.CarModelStore,
	colorStore store.ColorStore,
) *CatalogHandler {
	return &CatalogHandler{
		brandStore:    brandStore,
		carModelStore: carModelStore,
		colorStore:    colorStore,
	}
}

// ListBrands handles GET /brands requests
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.brandStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to retrieve brands", err)
		return
	}

	responses := make([]BrandResponse, 0, len(brands))
	for _, brand := range brands {
		responses = append(responses, brandToResponse(brand))
	}
	shared.RespondWithData(w, r, http.StatusOK, responses)
}

// ShowBrand handles GET /brands/{id} requests
func (h *CatalogHandler) ShowBrand(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Brand not found")
		return
	}

	brand, err := h.brandStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, brandToResponse(brand))
}

// ListCarModels handles GET /car-models requests
func (h *CatalogHandler) ListCarModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.carModelStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to retrieve car models", err)
		return
	}

	responses := make([]CarModelResponse, 0, len(models))
	for _, model := range models {
		responses = append(responses, carModelToResponse(model))
	}
	shared.RespondWithData(w, r, http.StatusOK, responses)
}

// ShowCarModel handles GET /car-models/{id} requests
func (h *CatalogHandler) ShowCarModel(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Car model not found")
		return
	}

	model, err := h.carModelStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, carModelToResponse(model))
}

// ListColors handles GET /colors requests
func (h *CatalogHandler) ListColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.colorStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to retrieve colors", err)
		return
	}

	responses := make([]ColorResponse, 0, len(colors))
	for _, color := range colors {
		responses = append(responses, colorToResponse(color))
	}
	shared.RespondWithData(w, r, http.StatusOK, responses)
}

// ShowColor handles GET /colors/{id} requests
func (h *CatalogHandler) ShowColor(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Color not found")
		return
	}

	color, err := h.colorStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, colorToResponse(color))
}
