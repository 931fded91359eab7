package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/autofleet/garage-api/internal/api/shared"
	"github.com/autofleet/garage-api/internal/domain"
	"github.com/autofleet/garage-api/internal/service"
)

// Messages returned by the asynchronous mutation endpoints.
const (
	carCreationQueuedMessage = "Car creation has been queued for processing"
	carUpdateQueuedMessage   = "Car update has been queued for processing"
	carDeletedMessage        = "Car deleted successfully"
)

// CarHandler handles car-related HTTP requests
type CarHandler struct {
	carService service.CarService
	validator  *validator.Validate
}

// NewCarHandler creates a new CarHandler
func NewCarHandler(carService service.CarService) *CarHandler {
	return &CarHandler{
		carService: carService,
		validator:  newRequestValidator(),
	}
}

// List handles GET /cars requests. Only the caller's own cars are
// returned.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cars, err := h.carService.ListCars(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, carsToResponse(cars))
}

// Show handles GET /cars/{id} requests. A car owned by another user is
// indistinguishable from one that does not exist.
func (h *CarHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, carID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	car, err := h.carService.GetCar(r.Context(), carID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, carToResponse(car))
}

// Store handles POST /cars requests. The car is not inserted here: a
// valid request enqueues a creation task and returns 202 before any row
// exists.
func (h *CarHandler) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateCarRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, ValidationErrorMap(err))
		return
	}
	if err := validateYear(req.Year); err != nil {
		shared.RespondWithValidationErrors(w, r, map[string]string{
			"year": yearValidationMessage(),
		})
		return
	}

	data, err := domain.NewCreateCarData(
		req.BrandID,
		req.CarModelID,
		req.ColorID,
		req.Year,
		req.Mileage.mileageInput(),
		req.Color,
		userID,
	)
	if err != nil {
		// Unit words and magnitudes are parsed here, past the struct
		// validator: a bad mileage surfaces as a field error.
		shared.RespondWithValidationErrors(w, r, mileageErrorMap(err))
		return
	}

	if err := h.carService.CreateCar(r.Context(), &data); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to queue car creation", err)
		return
	}

	shared.RespondWithMessage(w, r, http.StatusAccepted, carCreationQueuedMessage)
}

// Update handles PUT /cars/{id} requests. Ownership is checked before
// the update task is enqueued; the write itself happens asynchronously.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, carID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCarRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, ValidationErrorMap(err))
		return
	}
	if err := validateYear(req.Year); err != nil {
		shared.RespondWithValidationErrors(w, r, map[string]string{
			"year": yearValidationMessage(),
		})
		return
	}

	data, err := domain.NewUpdateCarData(
		req.BrandID,
		req.CarModelID,
		req.ColorID,
		req.Year,
		req.Mileage.mileageInput(),
		req.Color,
	)
	if err != nil {
		shared.RespondWithValidationErrors(w, r, mileageErrorMap(err))
		return
	}

	if err := h.carService.UpdateCar(r.Context(), carID, userID, &data); err != nil {
		if errors.Is(err, service.ErrNoChanges) {
			shared.RespondWithValidationErrors(w, r, map[string]string{
				"request": "At least one field must be provided",
			})
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithMessage(w, r, http.StatusAccepted, carUpdateQueuedMessage)
}

// Destroy handles DELETE /cars/{id} requests. Deletion is synchronous.
func (h *CarHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	userID, carID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.carService.DeleteCar(r.Context(), carID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, carDeletedMessage)
}

// mileageErrorMap builds a field-keyed error map for mileage parse
// failures.
func mileageErrorMap(err error) map[string]string {
	switch {
	case errors.Is(err, domain.ErrInvalidMileageUnit):
		return map[string]string{"mileage.unit": GetSafeErrorMessage(err)}
	case errors.Is(err, domain.ErrInvalidMileage):
		return map[string]string{"mileage.value": GetSafeErrorMessage(err)}
	default:
		return map[string]string{"mileage": "The mileage is invalid"}
	}
}
