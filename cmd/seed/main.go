// cmd/seed/main.go loads demo data into an empty database.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"os"
	"time"

	"christocar/internal/config"
	"christocar/internal/infra"
	"christocar/internal/model"
	"christocar/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const demoPIN = "1234"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	if err := seedEmployees(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("seed employees")
	}
	if err := seedClients(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("seed clients")
	}
	if err := seedCatalog(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("seed catalog")
	}
	log.Info().Str("pin", demoPIN).Msg("seed complete")
}

func empty(ctx context.Context, db *gorm.DB, m any) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(m).Count(&n).Error
	return n == 0, err
}

func seedEmployees(ctx context.Context, db *gorm.DB) error {
	ok, err := empty(ctx, db, &model.Employee{})
	if err != nil || !ok {
		return err
	}
	hash, err := service.HashPIN(demoPIN)
	if err != nil {
		return err
	}
	employees := []model.Employee{
		{Name: "Roberto Souza", Role: model.RoleManager},
		{Name: "Ana Lima", Role: model.RoleAdmin},
		{Name: "Marcos Oliveira", Role: model.RoleMechanic},
		{Name: "Pedro Santos", Role: model.RoleWasher},
		{Name: "Carla Mendes", Role: model.RoleCashier},
	}
	for i := range employees {
		employees[i].PinHash = hash
		employees[i].Active = true
	}
	log.Info().Int("count", len(employees)).Msg("seeding employees")
	return db.WithContext(ctx).Create(&employees).Error
}

func seedClients(ctx context.Context, db *gorm.DB) error {
	ok, err := empty(ctx, db, &model.Client{})
	if err != nil || !ok {
		return err
	}
	email := "joao.silva@example.com"
	clients := []model.Client{
		{
			Name: "João Silva", TaxID: "12345678909", Phone: "(11) 98888-1111", Email: &email,
			Vehicles: []model.Vehicle{{Plate: "ABC1D23", Model: "Onix", Brand: "Chevrolet"}},
		},
		{
			Name: "Transportes Rápidos Ltda", TaxID: "11222333000181", Phone: "(11) 3333-2222",
			Vehicles: []model.Vehicle{
				{Plate: "XYZ9K87", Model: "Strada", Brand: "Fiat"},
				{Plate: "QWE4R56", Model: "Hilux", Brand: "Toyota"},
			},
		},
	}
	log.Info().Int("count", len(clients)).Msg("seeding clients")
	return db.WithContext(ctx).Create(&clients).Error
}

func seedCatalog(ctx context.Context, db *gorm.DB) error {
	ok, err := empty(ctx, db, &model.WashService{})
	if err != nil {
		return err
	}
	if ok {
		services := []model.WashService{
			{Name: "Lavagem Simples", Price: decimal.NewFromInt(40)},
			{Name: "Lavagem Completa", Price: decimal.NewFromInt(60)},
			{Name: "Polimento", Price: decimal.NewFromInt(150)},
			{Name: "Higienização Interna", Price: decimal.NewFromInt(120)},
		}
		if err := db.WithContext(ctx).Create(&services).Error; err != nil {
			return err
		}
	}

	ok, err = empty(ctx, db, &model.Part{})
	if err != nil || !ok {
		return err
	}
	parts := []model.Part{
		{Code: "P-001", Name: "Filtro de óleo", Price: decimal.RequireFromString("35.90"), Quantity: 20},
		{Code: "P-002", Name: "Pastilha de freio", Price: decimal.RequireFromString("129.00"), Quantity: 12},
		{Code: "P-003", Name: "Óleo 5W30 (1L)", Price: decimal.RequireFromString("42.50"), Quantity: 48},
		{Code: "P-004", Name: "Vela de ignição", Price: decimal.RequireFromString("28.00"), Quantity: 30},
	}
	return db.WithContext(ctx).Create(&parts).Error
}
