package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cityguard/internal/adapters/persistence/models"
	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/core/domain"
	"cityguard/internal/pkg/pagination"
	"cityguard/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles user account business logic
type UserService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// UpdateProfileInput represents self-service profile update input
type UpdateProfileInput struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone *string `json:"phone" validate:"omitempty,min=7,max=30"`
	City  *string `json:"city" validate:"omitempty,max=100"`
}

// ChangePasswordInput represents password change input
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AdminCreateUserInput represents admin user creation input
type AdminCreateUserInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=30"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN OWNER USER"`
	City     string `json:"city" validate:"omitempty,max=100"`
}

// AdminUpdateUserInput represents admin user update input
type AdminUpdateUserInput struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,min=7,max=30"`
	City     *string `json:"city" validate:"omitempty,max=100"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN OWNER USER"`
	IsActive *bool   `json:"is_active"`
}

// ActiveSession represents a live refresh session as seen by admins
type ActiveSession struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GetProfile returns the authenticated user's profile
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateProfile applies a partial update to the authenticated user's profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.City != nil {
		user.City = strings.TrimSpace(*input.City)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// ChangePassword verifies the current password, sets the new one and
// revokes all refresh sessions of the user
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !password.Verify(input.CurrentPassword, user.Password) {
		return domain.ErrInvalidPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	// Force re-login everywhere after a password change
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ Password changed for user ID: %d", userID)
	return nil
}

// ListUsers returns a paginated user listing for admins
func (s *UserService) ListUsers(ctx context.Context, search string, params *pagination.Params) ([]*models.UserResponse, *pagination.Meta, error) {
	users, total, err := s.userRepo.List(ctx, strings.TrimSpace(search), params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	meta := pagination.GetMeta(params, total)
	return responses, meta, nil
}

// GetUser returns a single user for admins
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// CreateUser creates a user with an explicit role (admin only)
func (s *UserService) CreateUser(ctx context.Context, input *AdminCreateUserInput) (*models.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyUsed
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Phone:    strings.TrimSpace(input.Phone),
		Password: hashed,
		Role:     role,
		City:     strings.TrimSpace(input.City),
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created by admin: %s (role: %s)", user.Email, user.Role)
	return user.ToResponse(), nil
}

// UpdateUser applies a partial update including role and activation (admin only).
// Admins cannot change their own role.
func (s *UserService) UpdateUser(ctx context.Context, actorID, id uint, input *AdminUpdateUserInput) (*models.UserResponse, error) {
	if input.Role != nil && actorID == id {
		return nil, domain.ErrOwnRoleChange
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrEmailAlreadyUsed
			}
			user.Email = email
		}
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.City != nil {
		user.City = strings.TrimSpace(*input.City)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Deactivated users lose their sessions immediately
	if input.IsActive != nil && !*input.IsActive {
		if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, id); err != nil {
			return nil, err
		}
	}

	return user.ToResponse(), nil
}

// DeleteUser soft deletes a user and revokes their sessions (admin only).
// Admins cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return domain.ErrSelfDelete
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ User deleted: ID %d", id)
	return nil
}

// ActiveSessions lists non-revoked, non-expired refresh sessions (admin only)
func (s *UserService) ActiveSessions(ctx context.Context) ([]*ActiveSession, error) {
	tokens, err := s.refreshTokenRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make([]*ActiveSession, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, &ActiveSession{
			ID:        t.ID,
			UserID:    t.UserID,
			UserName:  t.User.Name,
			UserEmail: t.User.Email,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
		})
	}
	return sessions, nil
}
