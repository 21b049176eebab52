package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Michael-Parekh/proshop/internal/auth"
	"github.com/Michael-Parekh/proshop/internal/domain"
	"github.com/Michael-Parekh/proshop/internal/event"
	"github.com/Michael-Parekh/proshop/internal/repository"
	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 10

// UserService implements the business logic for account and session
// operations.
type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	producer *event.Producer
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	producer *event.Producer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		producer: producer,
		logger:   logger,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput holds the parameters for a self-service profile update.
// Nil fields keep their stored values; a non-nil password is re-hashed.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateUserInput holds the parameters for an admin user update.
type UpdateUserInput struct {
	Name    *string
	Email   *string
	IsAdmin *bool
}

// Session is an authenticated user together with a fresh token.
type Session struct {
	User  *domain.User
	Token string
}

// Register creates a new user account and opens a session for it.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		IsAdmin:      false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.Hex()),
		slog.String("email", user.Email),
	)

	return &Session{User: user, Token: token}, nil
}

// Login authenticates a user with email and password. Unknown emails and bad
// passwords fail identically.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Unauthenticated("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID.Hex()),
	)

	return &Session{User: user, Token: token}, nil
}

// GetProfile returns the profile of the authenticated user.
func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial self-service update and returns a fresh
// session so the client can keep a token matching the stored email.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*Session, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != "" {
		user.Email = *input.Email
	}
	if input.Password != nil && *input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "user profile updated",
		slog.String("user_id", user.ID.Hex()),
	)

	return &Session{User: user, Token: token}, nil
}

// ListUsers returns all user accounts. Admin operation.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// GetUser returns a single user account. Admin operation.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateUser applies a partial admin update, including the admin flag.
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != "" {
		user.Email = *input.Email
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user updated",
		slog.String("user_id", user.ID.Hex()),
		slog.Bool("is_admin", user.IsAdmin),
	)

	return user, nil
}

// DeleteUser removes a user account. Admin operation.
func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.String("user_id", id.Hex()),
	)

	return nil
}
