package domain

import "time"

// Brand is a car manufacturer. Catalog data is read-only through the
// API and maintained by seed migrations.
type Brand struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CarModel is a model belonging to a brand.
type CarModel struct {
	ID        int64     `json:"id"`
	BrandID   int64     `json:"brand_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Color is a structured color reference with display codes. Cars may
// also carry a free-text legacy color alongside the reference.
type Color struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	HexCode   string    `json:"hex_code"`
	RGBCode   string    `json:"rgb_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
