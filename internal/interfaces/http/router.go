package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/vaxa-api/internal/application/auth"
	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	CompanyStatus *usecase.CompanyStatusService
	UserUC        *usecase.UserUseCase
	TemplateUC    *usecase.TemplateUseCase
	AssetUC       *usecase.AssetUseCase
	DashboardUC   *usecase.DashboardUseCase
	TextUC        *usecase.TextUseCase
	BatchUC       *certificates.BatchUseCase
	ImportUC      *certificates.ImportUseCase
	ZipUC         *certificates.ZipUseCase
	CertificateUC *certificates.CertificateUseCase
	JWTSecret     string
	AdminAPIKey   string
	// PublicRateLimit peticiones por minuto e IP en rutas públicas; 0 = sin límite.
	PublicRateLimit int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	certHandler := NewCertificateHandler(deps.CertificateUC, deps.ZipUC)

	// Públicos (landing, login y validación), con rate limit por IP
	public := []fiber.Handler{}
	if deps.PublicRateLimit > 0 {
		public = append(public, limiter.New(limiter.Config{
			Max:        deps.PublicRateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"code": "RATE_LIMITED", "message": "demasiadas peticiones"})
			},
		}))
	}
	api.Post("/t/:slug/auth/login", append(append([]fiber.Handler{}, public...), authHandler.Login)...)

	pub := api.Group("/public", public...)
	pub.Get("/validar/:code", certHandler.Validate)
	pub.Get("/certificados/:code/pdf", certHandler.PublicDownload)
	pub.Get("/empresas/:slug", companyHandler.Branding)
	pub.Get("/empresas/:slug/logo", companyHandler.Logo)
	pub.Get("/planes", companyHandler.Plans)
	pub.Post("/contacto", companyHandler.Contact)

	// Plataforma (X-Admin-Key)
	platform := api.Group("/platform", RequireAdminKey(deps.AdminAPIKey))
	platform.Post("/companies", companyHandler.Create)
	platform.Get("/companies", companyHandler.List)
	platform.Put("/companies/:id/plan", companyHandler.ChangePlan)

	// Rutas protegidas (requieren Bearer Token)
	authMW := AuthMiddleware(deps.JWTSecret)
	activeMW := RequireActiveCompany(deps.CompanyStatus)
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleOperador)

	userHandler := NewUserHandler(deps.UserUC)
	me := api.Group("/auth", authMW, anyRole)
	me.Get("/me", authHandler.Me)
	me.Put("/password", userHandler.ChangePassword)

	empresa := api.Group("/empresa", authMW, anyRole, activeMW)
	empresa.Get("/", companyHandler.Current)
	empresa.Put("/", adminOnly, companyHandler.UpdateBranding)
	empresa.Post("/logo", adminOnly, companyHandler.UploadLogo)

	users := api.Group("/usuarios", authMW, adminOnly, activeMW)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Patch("/:id", userHandler.Update)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.TextUC)
	api.Get("/dashboard", authMW, anyRole, activeMW, dashboardHandler.Get)
	api.Post("/texto/mejorar", authMW, anyRole, activeMW, dashboardHandler.ImproveText)

	batchHandler := NewBatchHandler(deps.BatchUC, deps.ImportUC, deps.ZipUC)
	api.Post("/importaciones/preview", authMW, anyRole, activeMW, batchHandler.Preview)
	lotes := api.Group("/lotes", authMW, anyRole, activeMW)
	lotes.Post("/", batchHandler.Generate)
	lotes.Get("/", batchHandler.List)
	lotes.Get("/:id", batchHandler.Get)
	lotes.Get("/:id/zip", batchHandler.Zip)
	lotes.Post("/:id/enviar", batchHandler.Send)

	certs := api.Group("/certificados", authMW, anyRole, activeMW)
	certs.Get("/", certHandler.List)
	certs.Post("/zip", certHandler.Zip)
	certs.Get("/:id", certHandler.Get)
	certs.Get("/:id/pdf", certHandler.Download)
	certs.Put("/:id", certHandler.Update)
	certs.Post("/:id/regenerar", certHandler.Regenerate)
	certs.Post("/:id/revocar", adminOnly, certHandler.Revoke)
	certs.Post("/:id/reactivar", adminOnly, certHandler.Reactivate)
	certs.Post("/:id/enviar", certHandler.Email)

	templateHandler := NewTemplateHandler(deps.TemplateUC)
	tpl := api.Group("/plantilla", authMW, anyRole, activeMW)
	tpl.Get("/", templateHandler.Get)
	tpl.Get("/preview", templateHandler.Preview)
	tpl.Put("/", adminOnly, templateHandler.Save)
	tpl.Post("/fondo", adminOnly, templateHandler.UploadBackground)
	tpl.Delete("/fondo", adminOnly, templateHandler.DeleteBackground)

	assetHandler := NewAssetHandler(deps.AssetUC)
	firmas := api.Group("/firmas", authMW, anyRole, activeMW)
	firmas.Get("/", assetHandler.ListSignatures)
	firmas.Post("/", adminOnly, assetHandler.CreateSignature)
	firmas.Patch("/:id", adminOnly, assetHandler.ToggleSignature)
	firmas.Delete("/:id", adminOnly, assetHandler.DeleteSignature)

	logos := api.Group("/logos", authMW, anyRole, activeMW)
	logos.Get("/", assetHandler.ListLogos)
	logos.Post("/", adminOnly, assetHandler.CreateLogo)
	logos.Patch("/:id", adminOnly, assetHandler.ToggleLogo)
	logos.Delete("/:id", adminOnly, assetHandler.DeleteLogo)
}
