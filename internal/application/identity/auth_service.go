package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/identity"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/auth"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	companyRepo identity.CompanyRepository
	userRepo    identity.UserRepository
	regScope    RegistrationScope
	runner      TenantRunner
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewAuthService creates the authentication service
func NewAuthService(
	companyRepo identity.CompanyRepository,
	userRepo identity.UserRepository,
	regScope RegistrationScope,
	runner TenantRunner,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		regScope:    regScope,
		runner:      runner,
		jwtService:  jwtService,
		blacklist:   blacklist,
		events:      events,
		logger:      logger,
	}
}

// Register creates a company and its admin user in one transaction and
// returns a logged-in session for the admin.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if err := auth.ValidatePasswordStrength(input.Password); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	taken, err := s.companyRepo.ExistsBySubdomain(ctx, input.Subdomain)
	if err != nil {
		s.logger.Error("Subdomain lookup failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check subdomain availability")
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Subdomain is already taken")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("Password hashing failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to process password")
	}

	company, err := identity.NewCompany(input.CompanyName, input.Subdomain, input.Email)
	if err != nil {
		return nil, err
	}
	admin, err := identity.NewUser(company.ID, input.Email, hash, input.FirstName, input.LastName,
		[]string{identity.RoleAdmin})
	if err != nil {
		return nil, err
	}
	admin.Verify()

	err = s.regScope.Execute(ctx, company.ID, func(companies identity.CompanyRepository, users identity.UserRepository) error {
		if err := companies.Save(ctx, company); err != nil {
			return err
		}
		return users.Save(ctx, admin)
	})
	if err != nil {
		s.logger.Error("Registration transaction failed",
			zap.String("subdomain", company.Subdomain),
			zap.Error(err))
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Subdomain is already taken")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register company")
	}

	if err := s.events.Publish(ctx, identity.NewCompanyRegisteredEvent(company, admin.ID)); err != nil {
		s.logger.Warn("Failed to publish registration event", zap.Error(err))
	}

	tokens, err := s.issueTokens(admin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Company registered",
		zap.String("company_id", company.ID.String()),
		zap.String("subdomain", company.Subdomain))

	return &RegisterResult{
		CompanyID:  company.ID,
		Subdomain:  company.Subdomain,
		AuthResult: *tokens,
	}, nil
}

// Login authenticates by company subdomain, email and password and
// returns a token pair. The company resolves the tenant first: emails
// are only unique per tenant, and the user lookup itself runs inside a
// tenant-bound transaction so the row level security policy admits it.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	subdomain := strings.ToLower(strings.TrimSpace(input.Subdomain))
	if subdomain == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company subdomain is required")
	}

	company, err := s.companyRepo.FindBySubdomain(ctx, subdomain)
	if err != nil {
		s.logger.Warn("Login failed, unknown subdomain", zap.String("subdomain", subdomain))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if !company.IsActive {
		return nil, shared.NewDomainError("COMPANY_SUSPENDED", "Company account is suspended")
	}

	var user *identity.User
	err = s.runner.RunAs(ctx, company.ID, func(ctx context.Context) error {
		found, err := s.userRepo.FindByEmailForTenant(ctx, company.ID, input.Email)
		if err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		s.logger.Warn("Login failed, unknown email",
			zap.String("subdomain", subdomain),
			zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.IsActive {
		s.logger.Warn("Login attempt for deactivated user", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if err := auth.VerifyPassword(user.PasswordHash, input.Password); err != nil {
		s.logger.Warn("Login failed, bad password", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	user.RecordLogin(time.Now())
	err = s.runner.RunAs(ctx, company.ID, func(ctx context.Context) error {
		return s.userRepo.Update(ctx, user)
	})
	if err != nil {
		// The session is already issued; losing the login timestamp is acceptable
		s.logger.Warn("Failed to record login time", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))
	return tokens, nil
}

// Refresh exchanges a refresh token for a new pair. The user's current
// email and roles are re-read so revoked roles do not survive refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, translateTokenError(err)
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}
	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid tenant ID in token")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Error("Blacklist check failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate session")
	}
	if invalidated {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Session has been revoked. Please log in again")
	}

	// Refresh is a public endpoint, so no request transaction exists
	// yet; the lookup opens its own tenant-bound one.
	var user *identity.User
	err = s.runner.RunAs(ctx, tenantID, func(ctx context.Context) error {
		found, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
		if err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	pair, err := s.jwtService.RefreshTokenPair(refreshToken, user.Email, user.Roles)
	if err != nil {
		return nil, translateTokenError(err)
	}

	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  NewUserInfo(user),
	}, nil
}

// Logout revokes the presented access token until its natural expiry
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	jti := claims.RegisteredClaims.ID
	if jti == "" {
		return shared.NewDomainError("TOKEN_INVALID", "Token has no ID")
	}
	if err := s.blacklist.AddToBlacklist(ctx, jti, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}
	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// CurrentUser returns the authenticated user's profile
func (s *AuthService) CurrentUser(ctx context.Context, tenantID, userID string) (*UserInfo, error) {
	tid, uid, err := parseTenantUser(tenantID, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tid, uid)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	info := NewUserInfo(user)
	return &info, nil
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every outstanding session for the user.
func (s *AuthService) ChangePassword(ctx context.Context, tenantID, userID string, input ChangePasswordInput) error {
	tid, uid, err := parseTenantUser(tenantID, userID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, tid, uid)
	if err != nil {
		return shared.NewDomainError("NOT_FOUND", "User not found")
	}

	if err := auth.VerifyPassword(user.PasswordHash, input.CurrentPassword); err != nil {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := auth.ValidatePasswordStrength(input.NewPassword); err != nil {
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		s.logger.Error("Password hashing failed", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process password")
	}
	if err := user.ChangePassword(hash); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to store new password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID, ttl); err != nil {
		s.logger.Warn("Failed to revoke existing sessions after password change", zap.Error(err))
	}

	s.logger.Info("Password changed", zap.String("user_id", userID))
	return nil
}

func (s *AuthService) issueTokens(user *identity.User) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Roles:    user.Roles,
	})
	if err != nil {
		s.logger.Error("Token generation failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  NewUserInfo(user),
	}, nil
}

func translateTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Session has expired. Please log in again")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrInvalidTokenType):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate token")
	}
}
