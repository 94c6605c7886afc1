package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/vaxa-api/internal/application/auth"
	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/archive"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/cache"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/excel"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/mail"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/memory"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/vaxa-api/internal/infrastructure/pdf"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/postgres"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/vaxa-api/internal/interfaces/http"
	"github.com/jhoicas/vaxa-api/pkg/config"
	"github.com/jhoicas/vaxa-api/pkg/logger"
)

// repos puertos de persistencia del driver elegido (postgres o memoria).
type repos struct {
	plans        repository.PlanRepository
	companies    repository.CompanyRepository
	users        repository.UserRepository
	batches      repository.BatchRepository
	certificates repository.CertificateRepository
	certData     repository.CertificateDataRepository
	templates    repository.TemplateRepository
	signatures   repository.SignatureRepository
	logos        repository.LogoRepository
	tx           txRunner
}

// txRunner transacciones de emisión y de alta de tenants sobre el mismo backend.
type txRunner interface {
	certificates.IssueTxRunner
	usecase.TenantTxRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var r repos
	switch cfg.DB.Driver {
	case "memory":
		m := memory.NewRepositories(memory.NewStore())
		r = repos{
			plans: m.Plans, companies: m.Companies, users: m.Users, batches: m.Batches,
			certificates: m.Certificates, certData: m.CertData, templates: m.Templates,
			signatures: m.Signatures, logos: m.Logos, tx: m.Tx,
		}
		log.Warn().Msg("repositorios en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool, log.Component("migrate").Zerolog()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		r = repos{
			plans:        postgres.NewPlanRepository(pool),
			companies:    postgres.NewCompanyRepository(pool),
			users:        postgres.NewUserRepository(pool),
			batches:      postgres.NewBatchRepository(pool),
			certificates: postgres.NewCertificateRepository(pool),
			certData:     postgres.NewCertificateDataRepository(pool),
			templates:    postgres.NewTemplateRepository(pool),
			signatures:   postgres.NewSignatureRepository(pool),
			logos:        postgres.NewLogoRepository(pool),
			tx:           postgres.NewTxRunner(pool),
		}
	}

	fileStorage, err := storage.NewDiskStorage(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("almacenamiento de archivos")
	}

	var mailer ports.Mailer = mail.DisabledMailer{}
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP sin configurar: el envío de correos queda deshabilitado")
	}

	var validationCache ports.ValidationCache = cache.NoopValidationCache{}
	if cfg.Redis.URL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		validationCache = cache.NewRedisValidationCache(client, cfg.Redis.CacheTTL)
	}

	collector := metrics.New()
	validationURL := certificates.ValidationURLFunc(cfg.Public.ValidationURL)
	logoURL := func(c *entity.Company) string {
		if c == nil || c.LogoPath == "" {
			return ""
		}
		return "/api/public/empresas/" + c.Slug + "/logo"
	}

	composer := certificates.NewComposer(
		r.templates, r.signatures, r.logos, fileStorage,
		infrapdf.NewMarotoCertificateRenderer(), validationURL,
	)
	notifier := certificates.NewNotifier(mailer, fileStorage, validationURL, log.Component("notifier").Zerolog())
	batchUC := certificates.NewBatchUseCase(
		r.companies, r.batches, r.certificates, r.tx,
		excel.NewRosterReader(), composer, fileStorage, notifier, collector,
		cfg.Batch.MaxRows, log.Component("batch").Zerolog(),
	)
	certificateUC := certificates.NewCertificateUseCase(
		r.companies, r.certificates, r.certData, composer, fileStorage,
		validationCache, notifier, collector, validationURL, log.Component("certificates").Zerolog(),
	)
	zipUC := certificates.NewZipUseCase(r.batches, r.certificates, fileStorage, archive.NewZipBuilder())
	importUC := certificates.NewImportUseCase(r.companies, excel.NewRosterReader())

	companyUC := usecase.NewCompanyUseCase(
		r.companies, r.plans, r.tx, fileStorage, validationCache, mailer,
		cfg.SMTP.ContactEmail, logoURL, log.Component("companies").Zerolog(),
	)
	seedUC := usecase.NewSeedUseCase(r.plans, companyUC)
	if n, err := seedUC.EnsurePlans(ctx, usecase.DefaultPlans()); err != nil {
		log.Fatal().Err(err).Msg("catálogo de planes")
	} else if n > 0 {
		log.Info().Int("planes", n).Msg("catálogo de planes creado")
	}

	authUC := auth.NewAuthUseCase(r.users, r.companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, logoURL)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB << 20,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Minute * 5, // lotes grandes y ZIPs
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Component("http").Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Vaxa API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		CompanyUC:       companyUC,
		CompanyStatus:   usecase.NewCompanyStatusService(r.companies),
		UserUC:          usecase.NewUserUseCase(r.users),
		TemplateUC:      usecase.NewTemplateUseCase(r.templates, r.companies, fileStorage, composer, log.Component("templates").Zerolog()),
		AssetUC:         usecase.NewAssetUseCase(r.signatures, r.logos, fileStorage, log.Component("assets").Zerolog()),
		DashboardUC:     usecase.NewDashboardUseCase(r.companies, r.certificates, r.batches, logoURL),
		TextUC:          usecase.NewTextUseCase(),
		BatchUC:         batchUC,
		ImportUC:        importUC,
		ZipUC:           zipUC,
		CertificateUC:   certificateUC,
		JWTSecret:       cfg.JWT.Secret,
		AdminAPIKey:     cfg.Admin.APIKey,
		PublicRateLimit: cfg.HTTP.RateLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
