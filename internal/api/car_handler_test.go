package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofleet/garage-api/internal/api/shared"
	"github.com/autofleet/garage-api/internal/domain"
	"github.com/autofleet/garage-api/internal/service"
)

// mockCarService is a mock implementation of the CarService interface
type mockCarService struct {
	listFn   func(ctx context.Context, userID int64) ([]*domain.Car, error)
	getFn    func(ctx context.Context, carID, userID int64) (*domain.Car, error)
	createFn func(ctx context.Context, data *domain.CreateCarData) error
	updateFn func(ctx context.Context, carID, userID int64, data *domain.UpdateCarData) error
	deleteFn func(ctx context.Context, carID, userID int64) error
}

func (m *mockCarService) ListCars(ctx context.Context, userID int64) ([]*domain.Car, error) {
	return m.listFn(ctx, userID)
}

func (m *mockCarService) GetCar(ctx context.Context, carID, userID int64) (*domain.Car, error) {
	return m.getFn(ctx, carID, userID)
}

func (m *mockCarService) CreateCar(ctx context.Context, data *domain.CreateCarData) error {
	return m.createFn(ctx, data)
}

func (m *mockCarService) UpdateCar(ctx context.Context, carID, userID int64, data *domain.UpdateCarData) error {
	return m.updateFn(ctx, carID, userID, data)
}

func (m *mockCarService) DeleteCar(ctx context.Context, carID, userID int64) error {
	return m.deleteFn(ctx, carID, userID)
}

// newCarRequest builds a request carrying the given user ID in context
// and, when id is non-empty, a chi route parameter named "id".
func newCarRequest(t *testing.T, method, target string, body []byte, userID int64, id string) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	ctx := req.Context()
	if userID != 0 {
		ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	}
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

// decodeEnvelope decodes the standard response envelope from a recorder.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) shared.Response {
	t.Helper()

	var resp shared.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func testCar(carID, userID int64) *domain.Car {
	year := 2021
	value := 50000.5
	unit := domain.MileageUnitKilometers
	now := time.Now().UTC()
	return &domain.Car{
		ID:           carID,
		BrandID:      1,
		CarModelID:   2,
		UserID:       userID,
		Year:         &year,
		MileageValue: &value,
		MileageUnit:  &unit,
		CreatedAt:    now,
		UpdatedAt:    now,
		Brand:        &domain.Brand{ID: 1, Name: "Toyota"},
		CarModel:     &domain.CarModel{ID: 2, BrandID: 1, Name: "Corolla"},
	}
}

func TestListCars(t *testing.T) {
	t.Parallel()

	t.Run("returns the user's cars", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			listFn: func(ctx context.Context, userID int64) ([]*domain.Car, error) {
				assert.Equal(t, int64(7), userID)
				return []*domain.Car{testCar(10, 7)}, nil
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.List(rr, newCarRequest(t, http.MethodGet, "/api/v1/cars", nil, 7, ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "success", resp.Status)

		cars, ok := resp.Data.([]interface{})
		require.True(t, ok)
		require.Len(t, cars, 1)
		car, ok := cars[0].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(10), car["id"])

		mileage, ok := car["mileage"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 50000.5, mileage["value"])
		assert.Equal(t, "km", mileage["unit"])
		assert.Equal(t, "50,000.5 Kilometers", mileage["display"])
	})

	t.Run("rejects requests without a user", func(t *testing.T) {
		t.Parallel()

		handler := NewCarHandler(&mockCarService{})

		rr := httptest.NewRecorder()
		handler.List(rr, newCarRequest(t, http.MethodGet, "/api/v1/cars", nil, 0, ""))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("empty garage is a success", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			listFn: func(ctx context.Context, userID int64) ([]*domain.Car, error) {
				return nil, nil
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.List(rr, newCarRequest(t, http.MethodGet, "/api/v1/cars", nil, 7, ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "success", resp.Status)
	})
}

func TestShowCar(t *testing.T) {
	t.Parallel()

	t.Run("returns an owned car", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			getFn: func(ctx context.Context, carID, userID int64) (*domain.Car, error) {
				assert.Equal(t, int64(10), carID)
				assert.Equal(t, int64(7), userID)
				return testCar(10, 7), nil
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Show(rr, newCarRequest(t, http.MethodGet, "/api/v1/cars/10", nil, 7, "10"))

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeEnvelope(t, rr)
		car, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(10), car["id"])
		brand, ok := car["brand"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Toyota", brand["name"])
	})

	t.Run("another user's car is reported as missing", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			getFn: func(ctx context.Context, carID, userID int64) (*domain.Car, error) {
				return nil, service.ErrCarNotFound
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Show(rr, newCarRequest(t, http.MethodGet, "/api/v1/cars/10", nil, 7, "10"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "Car not found", resp.Message)
	})

	t.Run("non-numeric id is a not found", func(t *testing.T) {
		t.Parallel()

		handler := NewCarHandler(&mockCarService{})

		rr := httptest.NewRecorder()
		handler.Show(rr, newCarRequest(t, http.MethodGet, "/api/v1/cars/abc", nil, 7, "abc"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestStoreCar(t *testing.T) {
	t.Parallel()

	validBody := []byte(`{
		"brand_id": 1,
		"car_model_id": 2,
		"year": 2021,
		"mileage": {"value": 50000.5, "unit": "Kilometers"}
	}`)

	t.Run("queues creation and returns 202", func(t *testing.T) {
		t.Parallel()

		var captured *domain.CreateCarData
		svc := &mockCarService{
			createFn: func(ctx context.Context, data *domain.CreateCarData) error {
				captured = data
				return nil
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Store(rr, newCarRequest(t, http.MethodPost, "/api/v1/cars", validBody, 7, ""))

		assert.Equal(t, http.StatusAccepted, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, "Car creation has been queued for processing", resp.Message)

		require.NotNil(t, captured)
		assert.Equal(t, int64(7), captured.UserID)
		assert.Equal(t, int64(1), captured.BrandID)
		require.NotNil(t, captured.Mileage)
		assert.Equal(t, domain.MileageUnitKilometers, captured.Mileage.Unit)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		handler := NewCarHandler(&mockCarService{})

		rr := httptest.NewRecorder()
		handler.Store(rr, newCarRequest(t, http.MethodPost, "/api/v1/cars", []byte(`{not json`), 7, ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "Invalid request format", resp.Message)
	})

	t.Run("missing required fields yield a field error map", func(t *testing.T) {
		t.Parallel()

		handler := NewCarHandler(&mockCarService{})

		rr := httptest.NewRecorder()
		handler.Store(rr, newCarRequest(t, http.MethodPost, "/api/v1/cars", []byte(`{"year": 2021}`), 7, ""))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "The given data was invalid", resp.Message)
		assert.Equal(t, "The brand_id field is required", resp.Errors["brand_id"])
		assert.Equal(t, "The car_model_id field is required", resp.Errors["car_model_id"])
	})

	t.Run("rejects years outside the accepted range", func(t *testing.T) {
		t.Parallel()

		handler := NewCarHandler(&mockCarService{})
		body := []byte(`{"brand_id": 1, "car_model_id": 2, "year": 1850}`)

		rr := httptest.NewRecorder()
		handler.Store(rr, newCarRequest(t, http.MethodPost, "/api/v1/cars", body, 7, ""))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Contains(t, resp.Errors, "year")
	})

	t.Run("rejects unknown mileage units", func(t *testing.T) {
		t.Parallel()

		handler := NewCarHandler(&mockCarService{})
		body := []byte(`{"brand_id": 1, "car_model_id": 2, "mileage": {"value": 10, "unit": "Furlongs"}}`)

		rr := httptest.NewRecorder()
		handler.Store(rr, newCarRequest(t, http.MethodPost, "/api/v1/cars", body, 7, ""))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Contains(t, resp.Errors, "mileage.unit")
	})

	t.Run("rejects negative mileage values", func(t *testing.T) {
		t.Parallel()

		handler := NewCarHandler(&mockCarService{})
		body := []byte(`{"brand_id": 1, "car_model_id": 2, "mileage": {"value": -5, "unit": "Miles"}}`)

		rr := httptest.NewRecorder()
		handler.Store(rr, newCarRequest(t, http.MethodPost, "/api/v1/cars", body, 7, ""))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Contains(t, resp.Errors, "mileage.value")
	})

	t.Run("service failure is a 500", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			createFn: func(ctx context.Context, data *domain.CreateCarData) error {
				return errors.New("queue is down")
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Store(rr, newCarRequest(t, http.MethodPost, "/api/v1/cars", validBody, 7, ""))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "Failed to queue car creation", resp.Message)
		assert.NotContains(t, rr.Body.String(), "queue is down")
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		handler := NewCarHandler(&mockCarService{})

		rr := httptest.NewRecorder()
		handler.Store(rr, newCarRequest(t, http.MethodPost, "/api/v1/cars", validBody, 0, ""))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUpdateCar(t *testing.T) {
	t.Parallel()

	patch := []byte(`{"year": 2022}`)

	t.Run("queues the update and returns 202", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			updateFn: func(ctx context.Context, carID, userID int64, data *domain.UpdateCarData) error {
				assert.Equal(t, int64(10), carID)
				assert.Equal(t, int64(7), userID)
				require.NotNil(t, data.Year)
				assert.Equal(t, 2022, *data.Year)
				return nil
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Update(rr, newCarRequest(t, http.MethodPut, "/api/v1/cars/10", patch, 7, "10"))

		assert.Equal(t, http.StatusAccepted, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "Car update has been queued for processing", resp.Message)
	})

	t.Run("empty patch is a validation error", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			updateFn: func(ctx context.Context, carID, userID int64, data *domain.UpdateCarData) error {
				return service.ErrNoChanges
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Update(rr, newCarRequest(t, http.MethodPut, "/api/v1/cars/10", []byte(`{}`), 7, "10"))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "At least one field must be provided", resp.Errors["request"])
	})

	t.Run("another user's car is forbidden", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			updateFn: func(ctx context.Context, carID, userID int64, data *domain.UpdateCarData) error {
				return service.ErrCarNotOwned
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Update(rr, newCarRequest(t, http.MethodPut, "/api/v1/cars/10", patch, 7, "10"))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "You do not own this car", resp.Message)
	})

	t.Run("missing car is a 404", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			updateFn: func(ctx context.Context, carID, userID int64, data *domain.UpdateCarData) error {
				return service.ErrCarNotFound
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Update(rr, newCarRequest(t, http.MethodPut, "/api/v1/cars/999", patch, 7, "999"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		handler := NewCarHandler(&mockCarService{})

		rr := httptest.NewRecorder()
		handler.Update(rr, newCarRequest(t, http.MethodPut, "/api/v1/cars/10", []byte(`{`), 7, "10"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDestroyCar(t *testing.T) {
	t.Parallel()

	t.Run("deletes an owned car", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			deleteFn: func(ctx context.Context, carID, userID int64) error {
				assert.Equal(t, int64(10), carID)
				assert.Equal(t, int64(7), userID)
				return nil
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Destroy(rr, newCarRequest(t, http.MethodDelete, "/api/v1/cars/10", nil, 7, "10"))

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "Car deleted successfully", resp.Message)
	})

	t.Run("another user's car is forbidden", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			deleteFn: func(ctx context.Context, carID, userID int64) error {
				return service.ErrCarNotOwned
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Destroy(rr, newCarRequest(t, http.MethodDelete, "/api/v1/cars/10", nil, 7, "10"))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("missing car is a 404", func(t *testing.T) {
		t.Parallel()

		svc := &mockCarService{
			deleteFn: func(ctx context.Context, carID, userID int64) error {
				return service.ErrCarNotFound
			},
		}
		handler := NewCarHandler(svc)

		rr := httptest.NewRecorder()
		handler.Destroy(rr, newCarRequest(t, http.MethodDelete, "/api/v1/cars/999", nil, 7, "999"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
