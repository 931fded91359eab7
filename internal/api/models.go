package api

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/autofleet/garage-api/internal/domain"
)

// displayPrinter renders display strings with thousands separators.
var displayPrinter = message.NewPrinter(language.English)

// newRequestValidator builds a validator that reports field names from
// json tags, so validation error maps use wire names.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// MileagePayload is the nested mileage sub-document of car mutation
// requests.
type MileagePayload struct {
	Value float64 `json:"value" validate:"gte=0"`
	Unit  string  `json:"unit"  validate:"required"`
}

// CreateCarRequest represents the request body for creating a car.
type CreateCarRequest struct {
	BrandID    int64           `json:"brand_id"     validate:"required,gt=0"`
	CarModelID int64           `json:"car_model_id" validate:"required,gt=0"`
	ColorID    *int64          `json:"color_id"     validate:"omitempty,gt=0"`
	Year       *int            `json:"year"`
	Mileage    *MileagePayload `json:"mileage"`
	Color      *string         `json:"color"        validate:"omitempty,max=100"`
}

// UpdateCarRequest represents the request body for partially updating a
// car. Absent fields are left untouched.
type UpdateCarRequest struct {
	BrandID    *int64          `json:"brand_id"     validate:"omitempty,gt=0"`
	CarModelID *int64          `json:"car_model_id" validate:"omitempty,gt=0"`
	ColorID    *int64          `json:"color_id"     validate:"omitempty,gt=0"`
	Year       *int            `json:"year"`
	Mileage    *MileagePayload `json:"mileage"`
	Color      *string         `json:"color"        validate:"omitempty,max=100"`
}

// minCarYear is the oldest accepted model year; the upper bound is next
// year, checked dynamically.
const minCarYear = 1900

// validateYear checks a model year against the accepted range.
func validateYear(year *int) error {
	if year == nil {
		return nil
	}
	maxYear := time.Now().Year() + 1
	if *year < minCarYear || *year > maxYear {
		return fmt.Errorf("%w: must be between %d and %d", domain.ErrInvalidYear, minCarYear, maxYear)
	}
	return nil
}

// yearValidationMessage reports the accepted model year range.
func yearValidationMessage() string {
	return fmt.Sprintf("The year must be between %d and %d", minCarYear, time.Now().Year()+1)
}

// mileageInput converts the wire payload into the domain input form.
func (p *MileagePayload) mileageInput() *domain.MileageInput {
	if p == nil {
		return nil
	}
	return &domain.MileageInput{Value: p.Value, Unit: p.Unit}
}

// BrandResponse is the brand projection nested inside car responses and
// returned by the catalog endpoints.
type BrandResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CarModelResponse is the car model projection.
type CarModelResponse struct {
	ID      int64  `json:"id"`
	BrandID int64  `json:"brand_id"`
	Name    string `json:"name"`
}

// ColorResponse is the color projection.
type ColorResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	HexCode string `json:"hex_code"`
	RGBCode string `json:"rgb_code"`
}

// MileageResponse is the read-side mileage projection. Display uses a
// grouped one-decimal value with the unit label ("50,000.5 Kilometers"),
// which differs from the two-decimal code form used elsewhere.
type MileageResponse struct {
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Display string  `json:"display"`
}

// CarResponse represents the response data for a car.
type CarResponse struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Brand       *BrandResponse    `json:"brand,omitempty"`
	CarModel    *CarModelResponse `json:"car_model,omitempty"`
	Color       *ColorResponse    `json:"color,omitempty"`
	Year        *int              `json:"year,omitempty"`
	Mileage     *MileageResponse  `json:"mileage,omitempty"`
	LegacyColor *string           `json:"legacy_color,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// carToResponse converts a domain.Car to its response projection.
func carToResponse(car *domain.Car) CarResponse {
	resp := CarResponse{
		ID:          car.ID,
		UserID:      car.UserID,
		Year:        car.Year,
		LegacyColor: car.LegacyColor,
		CreatedAt:   car.CreatedAt,
		UpdatedAt:   car.UpdatedAt,
	}

	if car.Brand != nil {
		resp.Brand = &BrandResponse{ID: car.Brand.ID, Name: car.Brand.Name}
	}
	if car.CarModel != nil {
		resp.CarModel = &CarModelResponse{
			ID:      car.CarModel.ID,
			BrandID: car.CarModel.BrandID,
			Name:    car.CarModel.Name,
		}
	}
	if car.Color != nil {
		resp.Color = &ColorResponse{
			ID:      car.Color.ID,
			Name:    car.Color.Name,
			HexCode: car.Color.HexCode,
			RGBCode: car.Color.RGBCode,
		}
	}
	if m := car.Mileage(); m != nil {
		resp.Mileage = &MileageResponse{
			Value:   m.Value,
			Unit:    m.Unit.Code(),
			Display: displayPrinter.Sprintf("%.1f %s", m.Value, m.Unit.Label()),
		}
	}

	return resp
}

// carsToResponse converts a slice of cars to response projections.
func carsToResponse(cars []*domain.Car) []CarResponse {
	responses := make([]CarResponse, 0, len(cars))
	for _, car := range cars {
		responses = append(responses, carToResponse(car))
	}
	return responses
}

// brandToResponse converts a domain.Brand to its projection.
func brandToResponse(brand *domain.Brand) BrandResponse {
	return BrandResponse{ID: brand.ID, Name: brand.Name}
}

// carModelToResponse converts a domain.CarModel to its projection.
func carModelToResponse(model *domain.CarModel) CarModelResponse {
	return CarModelResponse{ID: model.ID, BrandID: model.BrandID, Name: model.Name}
}

// colorToResponse converts a domain.Color to its projection.
func colorToResponse(color *domain.Color) ColorResponse {
	return ColorResponse{
		ID:      color.ID,
		Name:    color.Name,
		HexCode: color.HexCode,
		RGBCode: color.RGBCode,
	}
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse represents the response data for a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned from register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// userToResponse converts a domain.User to its projection.
func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
