package domain

// MileageInput is the raw nested mileage sub-document of a car mutation
// request, before unit parsing. Range validation of Value happens at the
// API boundary; unit parsing happens here.
type MileageInput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// CreateCarData is the immutable, validated payload of a car creation
// request. It captures everything a creation task needs, by value.
type CreateCarData struct {
	BrandID     int64
	CarModelID  int64
	ColorID     *int64
	Year        *int
	Mileage     *Mileage
	LegacyColor *string
	UserID      int64
}

// NewCreateCarData builds a creation payload from validated request
// fields. A present mileage input is parsed into the value object;
// parse failures propagate to the caller.
func NewCreateCarData(
	brandID, carModelID int64,
	colorID *int64,
	year *int,
	mileage *MileageInput,
	legacyColor *string,
	userID int64,
) (CreateCarData, error) {
	parsed, err := parseMileageInput(mileage)
	if err != nil {
		return CreateCarData{}, err
	}

	return CreateCarData{
		BrandID:     brandID,
		CarModelID:  carModelID,
		ColorID:     colorID,
		Year:        year,
		Mileage:     parsed,
		LegacyColor: legacyColor,
		UserID:      userID,
	}, nil
}

// Flatten produces the storage-ready flat representation: nil fields are
// omitted entirely and the mileage value object is split into the two
// scalar columns the row store uses.
func (d CreateCarData) Flatten() map[string]any {
	fields := map[string]any{
		"brand_id":     d.BrandID,
		"car_model_id": d.CarModelID,
		"user_id":      d.UserID,
	}
	addOptionalFields(fields, d.ColorID, d.Year, d.Mileage, d.LegacyColor)
	return fields
}

// UpdateCarData is the immutable payload of a partial car update. All
// fields are optional; an update with no fields set is a no-op patch
// and must be rejected before any work is enqueued.
type UpdateCarData struct {
	BrandID     *int64
	CarModelID  *int64
	ColorID     *int64
	Year        *int
	Mileage     *Mileage
	LegacyColor *string
}

// NewUpdateCarData builds an update payload from validated request
// fields, parsing a present mileage input into the value object.
func NewUpdateCarData(
	brandID, carModelID, colorID *int64,
	year *int,
	mileage *MileageInput,
	legacyColor *string,
) (UpdateCarData, error) {
	parsed, err := parseMileageInput(mileage)
	if err != nil {
		return UpdateCarData{}, err
	}

	return UpdateCarData{
		BrandID:     brandID,
		CarModelID:  carModelID,
		ColorID:     colorID,
		Year:        year,
		Mileage:     parsed,
		LegacyColor: legacyColor,
	}, nil
}

// HasChanges reports whether at least one field is set. Callers reject
// empty patches so no empty update job is ever enqueued.
func (d UpdateCarData) HasChanges() bool {
	return d.BrandID != nil ||
		d.CarModelID != nil ||
		d.ColorID != nil ||
		d.Year != nil ||
		d.Mileage != nil ||
		d.LegacyColor != nil
}

// Flatten produces the storage-ready flat representation with nil fields
// omitted and mileage split into its two scalar columns.
func (d UpdateCarData) Flatten() map[string]any {
	fields := map[string]any{}
	if d.BrandID != nil {
		fields["brand_id"] = *d.BrandID
	}
	if d.CarModelID != nil {
		fields["car_model_id"] = *d.CarModelID
	}
	addOptionalFields(fields, d.ColorID, d.Year, d.Mileage, d.LegacyColor)
	return fields
}

func parseMileageInput(input *MileageInput) (*Mileage, error) {
	if input == nil {
		return nil, nil
	}
	unit, err := ParseMileageUnit(input.Unit)
	if err != nil {
		return nil, err
	}
	mileage, err := NewMileage(input.Value, unit)
	if err != nil {
		return nil, err
	}
	return &mileage, nil
}

func addOptionalFields(
	fields map[string]any,
	colorID *int64,
	year *int,
	mileage *Mileage,
	legacyColor *string,
) {
	if colorID != nil {
		fields["color_id"] = *colorID
	}
	if year != nil {
		fields["year"] = *year
	}
	if mileage != nil {
		fields["mileage_value"] = mileage.Value
		fields["mileage_unit"] = mileage.Unit.Code()
	}
	if legacyColor != nil {
		fields["color"] = *legacyColor
	}
}
