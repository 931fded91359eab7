package task

import (
	"fmt"

	"github.com/google/uuid"
)

// NewCarTaskRehydrator returns a RehydrateFunc that dispatches persisted
// car tasks to the matching factory.
func NewCarTaskRehydrator(creation *CarCreationTaskFactory, update *CarUpdateTaskFactory) RehydrateFunc {
	return func(taskType string, id uuid.UUID, payload []byte) (Task, error) {
		switch taskType {
		case TaskTypeCarCreation:
			return creation.Rehydrate(id, payload)
		case TaskTypeCarUpdate:
			return update.Rehydrate(id, payload)
		default:
			return nil, fmt.Errorf("unknown task type %q", taskType)
		}
	}
}

// integerCarFields lists the car columns that hold integer values. JSON
// decoding turns every number into float64, so a rehydrated field map
// needs these coerced back before it reaches the store.
var integerCarFields = map[string]bool{
	"brand_id":     true,
	"car_model_id": true,
	"color_id":     true,
	"user_id":      true,
	"year":         true,
}

// normalizeCarFields restores integer types on a field map that has been
// round-tripped through JSON.
func normalizeCarFields(fields map[string]any) map[string]any {
	normalized := make(map[string]any, len(fields))
	for name, value := range fields {
		if integerCarFields[name] {
			if f, ok := value.(float64); ok {
				normalized[name] = int64(f)
				continue
			}
		}
		normalized[name] = value
	}
	return normalized
}
