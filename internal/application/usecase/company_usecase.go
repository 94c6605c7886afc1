package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vaxa-api/internal/application/auth"
	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
	"github.com/jhoicas/vaxa-api/pkg/textnorm"
)

// LogoURLFunc arma la URL pública del logo de marca de una empresa.
type LogoURLFunc func(company *entity.Company) string

// TenantTxRunner ejecuta fn en una transacción: empresa y primer administrador se crean juntos.
type TenantTxRunner interface {
	RunTenant(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
	) error) error
}

// CompanyUseCase alta y administración de tenants, marca pública y catálogo de planes.
type CompanyUseCase struct {
	repo         repository.CompanyRepository
	planRepo     repository.PlanRepository
	tx           TenantTxRunner
	storage      ports.FileStorage
	cache        ports.ValidationCache
	mailer       ports.Mailer
	contactEmail string
	logoURL      LogoURLFunc
	log          zerolog.Logger
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(
	repo repository.CompanyRepository,
	planRepo repository.PlanRepository,
	tx TenantTxRunner,
	storage ports.FileStorage,
	cache ports.ValidationCache,
	mailer ports.Mailer,
	contactEmail string,
	logoURL LogoURLFunc,
	log zerolog.Logger,
) *CompanyUseCase {
	return &CompanyUseCase{
		repo:         repo,
		planRepo:     planRepo,
		tx:           tx,
		storage:      storage,
		cache:        cache,
		mailer:       mailer,
		contactEmail: contactEmail,
		logoURL:      logoURL,
		log:          log,
	}
}

// Create crea una empresa con el cupo de su plan y su primer administrador.
// El slug se deriva del nombre si no viene; uno repetido devuelve domain.ErrDuplicate.
// Si falla el alta del administrador tampoco queda la empresa.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CreateCompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = textnorm.Slug(name)
	}
	if !textnorm.ValidSlug(slug) {
		return nil, fmt.Errorf("%w: slug inválido %q", domain.ErrInvalidInput, slug)
	}
	if len(in.AdminPassword) < 8 {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	plan, err := uc.activePlan(ctx, in.PlanCode)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	company := &entity.Company{
		ID:               uuid.New().String(),
		Name:             name,
		Slug:             slug,
		NIT:              strings.TrimSpace(in.NIT),
		Email:            strings.TrimSpace(in.Email),
		Phone:            strings.TrimSpace(in.Phone),
		Address:          strings.TrimSpace(in.Address),
		Status:           entity.CompanyStatusActive,
		PlanID:           plan.ID,
		CertificateLimit: plan.CertificateLimit,
		PrimaryColor:     "#00467F",
		SecondaryColor:   "#F2A900",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        strings.TrimSpace(in.AdminEmail),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.AdminName),
		Role:         entity.RoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.RunTenant(ctx, func(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) error {
		if err := companyRepo.Create(ctx, company); err != nil {
			return err
		}
		return userRepo.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}
	return &dto.CreateCompanyResponse{
		Company: uc.toResponse(company, plan),
		Admin:   auth.ToUserResponse(admin),
	}, nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		plan, err := uc.planRepo.GetByID(ctx, c.PlanID)
		if err != nil {
			return nil, err
		}
		items = append(items, uc.toResponse(c, plan))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  page.Page(-1),
	}, nil
}

// ChangePlan cambia plan y cupo. Bajar el cupo por debajo de lo ya emitido exige reiniciar el contador.
// El contador nunca se reescribe con el valor leído: los lotes en curso siguen sumando.
func (uc *CompanyUseCase) ChangePlan(ctx context.Context, companyID string, in dto.ChangePlanRequest) (*dto.CompanyResponse, error) {
	company, err := uc.get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	plan, err := uc.activePlan(ctx, in.PlanCode)
	if err != nil {
		return nil, err
	}
	issued := company.CertificatesIssued
	company.PlanID = plan.ID
	company.CertificateLimit = plan.CertificateLimit
	company.PlanExpiresAt = in.ExpiresAt
	if in.Status != nil {
		company.Status = *in.Status
	}
	company.UpdatedAt = time.Now()
	err = uc.repo.UpdatePlan(ctx, company, in.ResetIssued)
	if errors.Is(err, domain.ErrConflict) {
		return nil, fmt.Errorf("%w: la empresa ya emitió %d certificados y el plan %s permite %d; use reset_issued",
			domain.ErrConflict, issued, plan.Code, plan.CertificateLimit)
	}
	if err != nil {
		return nil, err
	}
	if company, err = uc.get(ctx, companyID); err != nil {
		return nil, err
	}
	resp := uc.toResponse(company, plan)
	return &resp, nil
}

// Current empresa del usuario autenticado con su consumo.
func (uc *CompanyUseCase) Current(ctx context.Context, companyID string) (*dto.CompanyResponse, error) {
	company, err := uc.get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	plan, err := uc.planRepo.GetByID(ctx, company.PlanID)
	if err != nil {
		return nil, err
	}
	resp := uc.toResponse(company, plan)
	return &resp, nil
}

// UpdateBranding actualiza nombre, colores y contacto.
func (uc *CompanyUseCase) UpdateBranding(ctx context.Context, companyID string, in dto.UpdateBrandingRequest) (*dto.CompanyResponse, error) {
	company, err := uc.get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	renamed := false
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		renamed = name != company.Name
		company.Name = name
	}
	for _, c := range []struct {
		in  *string
		out *string
	}{{in.PrimaryColor, &company.PrimaryColor}, {in.SecondaryColor, &company.SecondaryColor}} {
		if c.in == nil {
			continue
		}
		if !certificate.ValidHexColor(*c.in) {
			return nil, fmt.Errorf("%w: color inválido %q", domain.ErrInvalidInput, *c.in)
		}
		*c.out = strings.ToUpper(*c.in)
	}
	if in.Email != nil {
		company.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		company.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		company.Address = strings.TrimSpace(*in.Address)
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	if renamed {
		// Las validaciones cacheadas muestran el nombre de la empresa.
		if err := uc.cache.InvalidateCompany(ctx, company.Slug); err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo invalidar el cache de validaciones")
		}
	}
	return uc.Current(ctx, companyID)
}

// UploadBrandLogo reemplaza el logo de la landing del tenant.
func (uc *CompanyUseCase) UploadBrandLogo(ctx context.Context, companyID string, data []byte) (*dto.CompanyResponse, error) {
	company, err := uc.get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	ext, err := checkImage(data)
	if err != nil {
		return nil, err
	}
	path := assetPath(companyID, "marca"+ext)
	if err := uc.storage.Save(ctx, path, data); err != nil {
		return nil, err
	}
	if company.LogoPath != "" && company.LogoPath != path {
		discardFile(ctx, uc.storage, uc.log, company.LogoPath)
	}
	company.LogoPath = path
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return uc.Current(ctx, companyID)
}

// PublicBranding marca de la landing por slug. Solo empresas activas.
func (uc *CompanyUseCase) PublicBranding(ctx context.Context, slug string) (*dto.PublicCompanyResponse, error) {
	company, err := uc.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := auth.ToPublicCompany(company, uc.logoURL)
	return &resp, nil
}

// PublicLogo bytes del logo de marca de la empresa del slug.
func (uc *CompanyUseCase) PublicLogo(ctx context.Context, slug string) ([]byte, error) {
	company, err := uc.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if company.LogoPath == "" {
		return nil, domain.ErrNotFound
	}
	return uc.storage.Read(ctx, company.LogoPath)
}

// Plans catálogo público ordenado por precio.
func (uc *CompanyUseCase) Plans(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := uc.planRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	return out, nil
}

// Contact envía el formulario de la landing a CONTACT_EMAIL con Reply-To del interesado.
func (uc *CompanyUseCase) Contact(ctx context.Context, in dto.ContactRequest) error {
	if uc.contactEmail == "" {
		return domain.ErrMailerDisabled
	}
	var b strings.Builder
	b.WriteString("<h2>Nuevo contacto desde la landing</h2><ul>")
	for _, kv := range [][2]string{
		{"Nombre", in.Name}, {"Email", in.Email}, {"Empresa", in.Company}, {"Teléfono", in.Phone},
	} {
		fmt.Fprintf(&b, "<li><b>%s:</b> %s</li>", kv[0], html.EscapeString(kv[1]))
	}
	fmt.Fprintf(&b, "</ul><p>%s</p>", strings.ReplaceAll(html.EscapeString(in.Message), "\n", "<br>"))
	return uc.mailer.Send(ctx, ports.Mail{
		To:       uc.contactEmail,
		ReplyTo:  in.Email,
		Subject:  "Contacto Vaxa: " + in.Name,
		HTMLBody: b.String(),
	})
}

func (uc *CompanyUseCase) get(ctx context.Context, id string) (*entity.Company, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

func (uc *CompanyUseCase) bySlug(ctx context.Context, slug string) (*entity.Company, error) {
	company, err := uc.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if company == nil || company.Status != entity.CompanyStatusActive {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

func (uc *CompanyUseCase) activePlan(ctx context.Context, code string) (*entity.Plan, error) {
	plan, err := uc.planRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive {
		return nil, fmt.Errorf("%w: plan %q no existe", domain.ErrInvalidInput, code)
	}
	return plan, nil
}

func (uc *CompanyUseCase) toResponse(c *entity.Company, plan *entity.Plan) dto.CompanyResponse {
	resp := dto.CompanyResponse{
		ID:             c.ID,
		Name:           c.Name,
		Slug:           c.Slug,
		NIT:            c.NIT,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		Status:         c.Status,
		PrimaryColor:   c.PrimaryColor,
		SecondaryColor: c.SecondaryColor,
		PlanExpiresAt:  c.PlanExpiresAt,
		Usage:          certificates.Usage(c),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if c.LogoPath != "" && uc.logoURL != nil {
		resp.LogoURL = uc.logoURL(c)
	}
	if plan != nil {
		p := toPlanResponse(plan)
		resp.Plan = &p
	}
	return resp
}

func toPlanResponse(p *entity.Plan) dto.PlanResponse {
	return dto.PlanResponse{
		Code:             p.Code,
		Name:             p.Name,
		Description:      p.Description,
		CertificateLimit: p.CertificateLimit,
		Price:            p.Price.StringFixed(2),
		Currency:         p.Currency,
	}
}
