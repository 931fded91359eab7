package domain

import "time"

// Car represents a stored car record owned by a single user. Mileage is
// persisted as two scalar columns (mileage_value, mileage_unit) because
// the row store has no compound types; the Mileage accessor reconstructs
// the value object from them.
type Car struct {
	ID           int64        `json:"id"`
	BrandID      int64        `json:"brand_id"`
	CarModelID   int64        `json:"car_model_id"`
	ColorID      *int64       `json:"color_id,omitempty"`
	UserID       int64        `json:"user_id"`
	Year         *int         `json:"year,omitempty"`
	MileageValue *float64     `json:"mileage_value,omitempty"`
	MileageUnit  *MileageUnit `json:"mileage_unit,omitempty"`
	LegacyColor  *string      `json:"color,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations, populated by ownership-scoped store reads.
	Brand    *Brand    `json:"brand,omitempty"`
	CarModel *CarModel `json:"car_model,omitempty"`
	Color    *Color    `json:"color,omitempty"`
}

// Mileage reconstructs the mileage value object from the record's two
// scalar columns. Returns nil when the record has no mileage.
func (c *Car) Mileage() *Mileage {
	if c.MileageValue == nil || c.MileageUnit == nil {
		return nil
	}
	return &Mileage{Value: *c.MileageValue, Unit: *c.MileageUnit}
}

// SnapshotFields captures the car's mutable field values as a flat map,
// mirroring the storage column layout. Used by update tasks to record
// the pre-update state for audit purposes.
func (c *Car) SnapshotFields() map[string]any {
	snapshot := map[string]any{
		"brand_id":     c.BrandID,
		"car_model_id": c.CarModelID,
	}
	if c.ColorID != nil {
		snapshot["color_id"] = *c.ColorID
	}
	if c.Year != nil {
		snapshot["year"] = *c.Year
	}
	if c.MileageValue != nil {
		snapshot["mileage_value"] = *c.MileageValue
	}
	if c.MileageUnit != nil {
		snapshot["mileage_unit"] = c.MileageUnit.Code()
	}
	if c.LegacyColor != nil {
		snapshot["color"] = *c.LegacyColor
	}
	return snapshot
}
