package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofleet/garage-api/internal/domain"
	"github.com/autofleet/garage-api/internal/store"
	"github.com/autofleet/garage-api/internal/task"
)

// fakeCarRepo implements CarRepository for testing.
type fakeCarRepo struct {
	cars      map[int64]*domain.Car
	listErr   error
	deleteErr error
	deleted   []int64
}

func newFakeCarRepo(cars ...*domain.Car) *fakeCarRepo {
	repo := &fakeCarRepo{cars: make(map[int64]*domain.Car)}
	for _, car := range cars {
		repo.cars[car.ID] = car
	}
	return repo
}

func (r *fakeCarRepo) GetForUser(ctx context.Context, userID int64) ([]*domain.Car, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	owned := make([]*domain.Car, 0)
	for _, car := range r.cars {
		if car.UserID == userID {
			owned = append(owned, car)
		}
	}
	return owned, nil
}

func (r *fakeCarRepo) FindForUser(ctx context.Context, carID, userID int64) (*domain.Car, error) {
	car, ok := r.cars[carID]
	if !ok || car.UserID != userID {
		return nil, store.ErrCarNotFound
	}
	return car, nil
}

func (r *fakeCarRepo) GetByID(ctx context.Context, carID int64) (*domain.Car, error) {
	car, ok := r.cars[carID]
	if !ok {
		return nil, store.ErrCarNotFound
	}
	return car, nil
}

func (r *fakeCarRepo) Delete(ctx context.Context, carID int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.cars[carID]; !ok {
		return store.ErrCarNotFound
	}
	delete(r.cars, carID)
	r.deleted = append(r.deleted, carID)
	return nil
}

// fakeTaskRunner records submitted tasks.
type fakeTaskRunner struct {
	submitted []task.Task
	submitErr error
}

func (r *fakeTaskRunner) Submit(ctx context.Context, t task.Task) error {
	if r.submitErr != nil {
		return r.submitErr
	}
	r.submitted = append(r.submitted, t)
	return nil
}

// fakeTask is a minimal task.Task implementation.
type fakeTask struct {
	id uuid.UUID
}

func (t *fakeTask) ID() uuid.UUID                  { return t.id }
func (t *fakeTask) Type() string                   { return "fake" }
func (t *fakeTask) Payload() []byte                { return nil }
func (t *fakeTask) Status() task.TaskStatus        { return task.TaskStatusPending }
func (t *fakeTask) Execute(ctx context.Context) error { return nil }

type fakeCreationFactory struct {
	built     []*domain.CreateCarData
	createErr error
}

func (f *fakeCreationFactory) CreateTask(data *domain.CreateCarData) (task.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.built = append(f.built, data)
	return &fakeTask{id: uuid.New()}, nil
}

type fakeUpdateFactory struct {
	carIDs    []int64
	originals []map[string]any
	createErr error
}

func (f *fakeUpdateFactory) CreateTask(carID int64, data *domain.UpdateCarData, original map[string]any) (task.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.carIDs = append(f.carIDs, carID)
	f.originals = append(f.originals, original)
	return &fakeTask{id: uuid.New()}, nil
}

func newTestCarService(t *testing.T, repo *fakeCarRepo, runner *fakeTaskRunner, creation *fakeCreationFactory, update *fakeUpdateFactory) CarService {
	t.Helper()
	svc, err := NewCarService(repo, runner, creation, update, nil)
	require.NoError(t, err)
	return svc
}

func testCar(id, userID int64) *domain.Car {
	year := 2020
	return &domain.Car{
		ID:         id,
		BrandID:    1,
		CarModelID: 2,
		UserID:     userID,
		Year:       &year,
	}
}

func TestNewCarServiceValidatesDependencies(t *testing.T) {
	runner := &fakeTaskRunner{}
	creation := &fakeCreationFactory{}
	update := &fakeUpdateFactory{}

	_, err := NewCarService(nil, runner, creation, update, nil)
	assert.Error(t, err)

	_, err = NewCarService(newFakeCarRepo(), nil, creation, update, nil)
	assert.Error(t, err)

	_, err = NewCarService(newFakeCarRepo(), runner, nil, update, nil)
	assert.Error(t, err)

	_, err = NewCarService(newFakeCarRepo(), runner, creation, nil, nil)
	assert.Error(t, err)
}

func TestListCars(t *testing.T) {
	repo := newFakeCarRepo(testCar(1, 42), testCar(2, 99))
	svc := newTestCarService(t, repo, &fakeTaskRunner{}, &fakeCreationFactory{}, &fakeUpdateFactory{})

	cars, err := svc.ListCars(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, int64(1), cars[0].ID)
}

func TestGetCarMasksForeignOwnership(t *testing.T) {
	repo := newFakeCarRepo(testCar(1, 99))
	svc := newTestCarService(t, repo, &fakeTaskRunner{}, &fakeCreationFactory{}, &fakeUpdateFactory{})

	// Requesting another user's car looks identical to requesting a
	// car that does not exist.
	_, err := svc.GetCar(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrCarNotFound)

	_, err = svc.GetCar(context.Background(), 777, 42)
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestCreateCarEnqueuesTask(t *testing.T) {
	runner := &fakeTaskRunner{}
	creation := &fakeCreationFactory{}
	svc := newTestCarService(t, newFakeCarRepo(), runner, creation, &fakeUpdateFactory{})

	data, err := domain.NewCreateCarData(1, 2, nil, nil, nil, nil, 42)
	require.NoError(t, err)

	require.NoError(t, svc.CreateCar(context.Background(), &data))
	assert.Len(t, creation.built, 1)
	assert.Len(t, runner.submitted, 1)
}

func TestCreateCarSubmitFailure(t *testing.T) {
	runner := &fakeTaskRunner{submitErr: errors.New("queue full")}
	svc := newTestCarService(t, newFakeCarRepo(), runner, &fakeCreationFactory{}, &fakeUpdateFactory{})

	data, err := domain.NewCreateCarData(1, 2, nil, nil, nil, nil, 42)
	require.NoError(t, err)

	err = svc.CreateCar(context.Background(), &data)
	require.Error(t, err)

	var svcErr *CarServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_car", svcErr.Operation)
}

func TestUpdateCarEnqueuesTaskWithSnapshot(t *testing.T) {
	repo := newFakeCarRepo(testCar(1, 42))
	runner := &fakeTaskRunner{}
	update := &fakeUpdateFactory{}
	svc := newTestCarService(t, repo, runner, &fakeCreationFactory{}, update)

	year := 2022
	data, err := domain.NewUpdateCarData(nil, nil, nil, &year, nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateCar(context.Background(), 1, 42, &data))

	require.Len(t, update.carIDs, 1)
	assert.Equal(t, int64(1), update.carIDs[0])
	assert.Equal(t, 2020, update.originals[0]["year"])
	assert.Len(t, runner.submitted, 1)
}

func TestUpdateCarRejectsForeignOwner(t *testing.T) {
	repo := newFakeCarRepo(testCar(1, 99))
	runner := &fakeTaskRunner{}
	svc := newTestCarService(t, repo, runner, &fakeCreationFactory{}, &fakeUpdateFactory{})

	year := 2022
	data, err := domain.NewUpdateCarData(nil, nil, nil, &year, nil, nil)
	require.NoError(t, err)

	err = svc.UpdateCar(context.Background(), 1, 42, &data)
	assert.ErrorIs(t, err, ErrCarNotOwned)
	assert.Empty(t, runner.submitted)
}

func TestUpdateCarMissingCar(t *testing.T) {
	svc := newTestCarService(t, newFakeCarRepo(), &fakeTaskRunner{}, &fakeCreationFactory{}, &fakeUpdateFactory{})

	year := 2022
	data, err := domain.NewUpdateCarData(nil, nil, nil, &year, nil, nil)
	require.NoError(t, err)

	err = svc.UpdateCar(context.Background(), 777, 42, &data)
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestUpdateCarRejectsEmptyPatch(t *testing.T) {
	repo := newFakeCarRepo(testCar(1, 42))
	runner := &fakeTaskRunner{}
	svc := newTestCarService(t, repo, runner, &fakeCreationFactory{}, &fakeUpdateFactory{})

	empty := domain.UpdateCarData{}
	err := svc.UpdateCar(context.Background(), 1, 42, &empty)
	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Empty(t, runner.submitted)
}

func TestUpdateCarOwnershipCheckedBeforeEmptyPatch(t *testing.T) {
	// A non-owner sending an empty patch gets the ownership rejection,
	// not the empty-patch one.
	repo := newFakeCarRepo(testCar(1, 99))
	svc := newTestCarService(t, repo, &fakeTaskRunner{}, &fakeCreationFactory{}, &fakeUpdateFactory{})

	empty := domain.UpdateCarData{}
	err := svc.UpdateCar(context.Background(), 1, 42, &empty)
	assert.ErrorIs(t, err, ErrCarNotOwned)
}

func TestDeleteCar(t *testing.T) {
	repo := newFakeCarRepo(testCar(1, 42))
	svc := newTestCarService(t, repo, &fakeTaskRunner{}, &fakeCreationFactory{}, &fakeUpdateFactory{})

	require.NoError(t, svc.DeleteCar(context.Background(), 1, 42))
	assert.Equal(t, []int64{1}, repo.deleted)
}

func TestDeleteCarRejectsForeignOwner(t *testing.T) {
	repo := newFakeCarRepo(testCar(1, 99))
	svc := newTestCarService(t, repo, &fakeTaskRunner{}, &fakeCreationFactory{}, &fakeUpdateFactory{})

	err := svc.DeleteCar(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrCarNotOwned)
	assert.Contains(t, repo.cars, int64(1))
}

func TestDeleteCarMissingCar(t *testing.T) {
	svc := newTestCarService(t, newFakeCarRepo(), &fakeTaskRunner{}, &fakeCreationFactory{}, &fakeUpdateFactory{})

	err := svc.DeleteCar(context.Background(), 777, 42)
	assert.ErrorIs(t, err, ErrCarNotFound)
}
