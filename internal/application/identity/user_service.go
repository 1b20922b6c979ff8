package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/identity"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/auth"
)

// UserService manages the users of a tenant
type UserService struct {
	userRepo identity.UserRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewUserService creates the user management service
func NewUserService(userRepo identity.UserRepository, events shared.EventPublisher, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		events:   events,
		logger:   logger,
	}
}

// Create invites a new user into the tenant
func (s *UserService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, input CreateUserInput) (*UserInfo, error) {
	if err := auth.ValidatePasswordStrength(input.Password); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	taken, err := s.userRepo.ExistsByEmailForTenant(ctx, tenantID, input.Email)
	if err != nil {
		s.logger.Error("Email lookup failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("Password hashing failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to process password")
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []string{identity.RoleMember}
	}
	user, err := identity.NewUser(tenantID, input.Email, hash, input.FirstName, input.LastName, roles)
	if err != nil {
		return nil, err
	}
	user.Phone = input.Phone
	user.SetCreatedBy(createdBy)

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	if err := s.events.Publish(ctx, identity.NewUserCreatedEvent(user)); err != nil {
		s.logger.Warn("Failed to publish user created event", zap.Error(err))
	}

	info := NewUserInfo(user)
	return &info, nil
}

// Get returns a single user
func (s *UserService) Get(ctx context.Context, tenantID, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	info := NewUserInfo(user)
	return &info, nil
}

// List returns a page of the tenant's users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[UserInfo], error) {
	users, total, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[UserInfo]{}, err
	}

	infos := make([]UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, NewUserInfo(&users[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}

// Update changes a user's profile fields
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateUserInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	user.UpdateProfile(input.FirstName, input.LastName, input.Phone, input.AvatarURL)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	info := NewUserInfo(user)
	return &info, nil
}

// AssignRoles replaces a user's role list
func (s *UserService) AssignRoles(ctx context.Context, tenantID, id uuid.UUID, roles []string) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := user.AssignRoles(roles); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	info := NewUserInfo(user)
	return &info, nil
}

// Activate re-enables a deactivated user
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	user.Activate()
	return s.userRepo.Update(ctx, user)
}

// Deactivate disables a user and publishes the deactivation event so
// their sessions can be revoked.
func (s *UserService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	user.Deactivate()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.events.Publish(ctx, identity.NewUserDeactivatedEvent(user)); err != nil {
		s.logger.Warn("Failed to publish user deactivated event", zap.Error(err))
	}
	return nil
}

// Delete removes a user from the tenant
func (s *UserService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.userRepo.Delete(ctx, tenantID, id)
}
