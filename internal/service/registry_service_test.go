package service_test

import (
	"context"
	"testing"

	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateVehicle_RequiresClient(t *testing.T) {
	svc := service.NewRegistryService(newStubClientRepo(), newStubVehicleRepo(), newStubEmployeeRepo())
	_, err := svc.CreateVehicle(context.Background(), dto.VehicleRequest{ClientID: 3, Plate: "ABC1D23", Model: "Civic", Brand: "Honda"})
	assert.ErrorIs(t, err, service.ErrInvalidReference)
}

func TestCreateVehicle_UppercasesPlate(t *testing.T) {
	ctx := context.Background()
	svc := service.NewRegistryService(newStubClientRepo(), newStubVehicleRepo(), newStubEmployeeRepo())
	c, err := svc.CreateClient(ctx, dto.ClientRequest{Name: "João Silva"})
	require.NoError(t, err)

	v, err := svc.CreateVehicle(ctx, dto.VehicleRequest{ClientID: c.ID, Plate: "abc1d23", Model: "Civic", Brand: "Honda"})
	require.NoError(t, err)
	assert.Equal(t, "ABC1D23", v.Plate)

	list, err := svc.ListVehicles(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateEmployee_HashesPIN(t *testing.T) {
	ctx := context.Background()
	employees := newStubEmployeeRepo()
	svc := service.NewRegistryService(newStubClientRepo(), newStubVehicleRepo(), employees)

	e, err := svc.CreateEmployee(ctx, dto.CreateEmployeeRequest{Name: "Ana", Role: model.RoleWasher, PIN: "4321"})
	require.NoError(t, err)
	assert.True(t, e.Active)

	stored := employees.rows[e.ID]
	assert.NotEqual(t, "4321", stored.PinHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PinHash), []byte("4321")))

	require.NoError(t, svc.DeactivateEmployee(ctx, e.ID))
	active, err := svc.ListEmployees(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSettingsUpdate_Partial(t *testing.T) {
	ctx := context.Background()
	repo := &stubSettingsRepo{s: model.AppSettings{ID: 1, CompanyName: "Auto Center Christo Car", ThemeColor: "#1e40af"}}
	logs := &stubLogRepo{}
	svc := service.NewSettingsService(repo, service.NewAuditService(logs))

	on := true
	got, err := svc.Update(ctx, manager, dto.SettingsRequest{MaintenanceMode: &on})
	require.NoError(t, err)
	assert.True(t, got.MaintenanceMode)
	assert.Equal(t, "Auto Center Christo Car", got.CompanyName)
	assert.Equal(t, []string{model.ActionSettingsUpdated}, logs.actions())
}
