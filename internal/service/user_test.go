package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Michael-Parekh/proshop/internal/auth"
	"github.com/Michael-Parekh/proshop/internal/domain"
	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
)

func newTestUserService(repo *mockUserRepo) *UserService {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewUserService(repo, tokens, nil, newTestLogger())
}

func newTestUser(password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:           primitive.NewObjectID(),
		Name:         "John Doe",
		Email:        "john@example.com",
		PasswordHash: string(hash),
		IsAdmin:      false,
	}
}

func TestRegister_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestUserService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = primitive.NewObjectID()
		}).
		Return(nil)

	session, err := svc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "John Doe", session.User.Name)
	assert.False(t, session.User.IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(session.User.PasswordHash), []byte("password123")))
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestUserService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "john@example.com"))

	session, err := svc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "password123",
	})

	assert.Nil(t, session)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestRegister_MissingFields(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestUserService(repo)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "john@example.com", Password: "pw"}},
		{"missing email", RegisterInput{Name: "John", Password: "pw"}},
		{"missing password", RegisterInput{Name: "John", Email: "john@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Register(context.Background(), tt.input)
			assert.Nil(t, session)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		})
	}

	repo.AssertNotCalled(t, "Create")
}

func TestLogin_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestUserService(repo)

	user := newTestUser("password123")
	repo.On("GetByEmail", mock.Anything, "john@example.com").Return(user, nil)

	session, err := svc.Login(context.Background(), LoginInput{
		Email:    "john@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestUserService(repo)

	user := newTestUser("password123")
	repo.On("GetByEmail", mock.Anything, "john@example.com").Return(user, nil)

	session, err := svc.Login(context.Background(), LoginInput{
		Email:    "john@example.com",
		Password: "wrong",
	})

	assert.Nil(t, session)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestUserService(repo)

	repo.On("GetByEmail", mock.Anything, "missing@example.com").
		Return(nil, apperrors.NotFound("user", "missing@example.com"))

	session, err := svc.Login(context.Background(), LoginInput{
		Email:    "missing@example.com",
		Password: "password123",
	})

	assert.Nil(t, session)
	require.Error(t, err)
	// Unknown emails fail the same way as bad passwords.
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestUpdateProfile_PasswordRehashed(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestUserService(repo)

	user := newTestUser("oldpassword")
	oldHash := user.PasswordHash
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	newPassword := "newpassword"
	session, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Password: &newPassword,
	})

	require.NoError(t, err)
	assert.NotEqual(t, oldHash, session.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(session.User.PasswordHash), []byte("newpassword")))
}

func TestUpdateProfile_NameOnlyKeepsHash(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestUserService(repo)

	user := newTestUser("password123")
	oldHash := user.PasswordHash
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	newName := "Jane Doe"
	session, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Name: &newName,
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", session.User.Name)
	assert.Equal(t, oldHash, session.User.PasswordHash)
}

func TestUpdateUser_AdminFlag(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestUserService(repo)

	user := newTestUser("password123")
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	isAdmin := true
	updated, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{
		IsAdmin: &isAdmin,
	})

	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)
}

func TestDeleteUser_NotFound(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestUserService(repo)

	id := primitive.NewObjectID()
	repo.On("Delete", mock.Anything, id).Return(apperrors.NotFound("user", id.Hex()))

	err := svc.DeleteUser(context.Background(), id)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
