// Package auth casos de uso de autenticación dentro del tenant.
package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
	"github.com/jhoicas/vaxa-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login por slug de empresa y consulta del usuario autenticado.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jwtCfg      JWTConfig
	logoURL     func(company *entity.Company) string
}

// NewAuthUseCase construye el caso de uso de auth. logoURL arma la URL pública del logo de la empresa.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	jwtCfg JWTConfig,
	logoURL func(company *entity.Company) string,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, jwtCfg: jwtCfg, logoURL: logoURL}
}

// Login verifica email/password dentro de la empresa del slug, genera JWT y registra el último acceso.
// Credenciales inválidas y usuario inexistente devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, slug string, in dto.LoginRequest) (*dto.LoginResponse, error) {
	company, err := uc.companyRepo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	user, err := uc.userRepo.GetByEmailAndCompany(ctx, strings.TrimSpace(in.Email), company.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	if company.Status != entity.CompanyStatusActive {
		return nil, domain.ErrCompanyInactive
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:   token,
		User:    ToUserResponse(user),
		Company: ToPublicCompany(company, uc.logoURL),
	}, nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ToUserResponse mapea un usuario a su DTO (sin hash).
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToPublicCompany marca pública de la empresa.
func ToPublicCompany(c *entity.Company, logoURL func(*entity.Company) string) dto.PublicCompanyResponse {
	resp := dto.PublicCompanyResponse{
		Name:           c.Name,
		Slug:           c.Slug,
		PrimaryColor:   c.PrimaryColor,
		SecondaryColor: c.SecondaryColor,
	}
	if c.LogoPath != "" && logoURL != nil {
		resp.LogoURL = logoURL(c)
	}
	return resp
}
