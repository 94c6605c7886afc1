// seed prepara una base recién migrada: catálogo de planes y, opcionalmente, el primer tenant
// con su usuario administrador. Es idempotente.
//
// Uso: go run ./cmd/seed --empresa "Academia Andina" --plan profesional \
//
//	--admin-email admin@andina.co --admin-password s3creta-larga
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/cache"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/mail"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/postgres"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/storage"
	"github.com/jhoicas/vaxa-api/pkg/config"
	"github.com/jhoicas/vaxa-api/pkg/logger"
)

func main() {
	var in dto.CreateCompanyRequest
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	flags.StringVar(&in.Name, "empresa", "", "nombre del primer tenant (vacío = solo planes)")
	flags.StringVar(&in.Slug, "slug", "", "slug del tenant (por defecto se deriva del nombre)")
	flags.StringVar(&in.PlanCode, "plan", "basico", "código del plan del tenant")
	flags.StringVar(&in.AdminName, "admin-nombre", "Administrador", "nombre del usuario administrador")
	flags.StringVar(&in.AdminEmail, "admin-email", "", "correo del usuario administrador")
	flags.StringVar(&in.AdminPassword, "admin-password", "", "contraseña del administrador (mínimo 8 caracteres)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log.Component("migrate").Zerolog()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	fileStorage, err := storage.NewDiskStorage(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de archivos")
	}
	planRepo := postgres.NewPlanRepository(pool)
	companyUC := usecase.NewCompanyUseCase(
		postgres.NewCompanyRepository(pool), planRepo, postgres.NewTxRunner(pool),
		fileStorage, cache.NoopValidationCache{}, mail.DisabledMailer{}, "", nil, log.Component("seed").Zerolog(),
	)
	seed := usecase.NewSeedUseCase(planRepo, companyUC)

	n, err := seed.EnsurePlans(ctx, usecase.DefaultPlans())
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo de planes")
	}
	log.Info().Int("creados", n).Msg("catálogo de planes")

	if in.Name == "" {
		return
	}
	created, err := seed.EnsureTenant(ctx, in)
	if err != nil {
		log.Fatal().Err(err).Str("empresa", in.Name).Msg("alta del tenant")
	}
	if created {
		log.Info().Str("empresa", in.Name).Str("admin", in.AdminEmail).Msg("tenant creado")
	} else {
		log.Info().Str("empresa", in.Name).Msg("el tenant ya existía")
	}
}
