package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/pkg/config"
	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
	"github.com/rgoyal-dev/shopkart-backend/pkg/enums"
	pkgerrors "github.com/rgoyal-dev/shopkart-backend/pkg/errors"
	"github.com/rgoyal-dev/shopkart-backend/pkg/security"
)

type stubUserStore struct {
	byEmail map[string]*models.User
	created []*models.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byEmail: map[string]*models.User{}}
}

func (s *stubUserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	s.created = append(s.created, user)
	return user, nil
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := s.byEmail[email]
	return ok, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "shopkart-test", ExpirationMinutes: 60}
}

func TestServiceRegister(t *testing.T) {
	store := newStubUserStore()
	svc, err := NewService(store, testJWTConfig(), config.PasswordConfig{})
	require.NoError(t, err)

	dto, err := svc.Register(context.Background(), RegisterInput{
		Name:     " Ravi ",
		Email:    "Ravi@Example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", dto.Name)
	assert.Equal(t, "ravi@example.com", dto.Email)
	assert.Equal(t, enums.UserRoleCustomer, dto.Role)
	require.Len(t, store.created, 1)
	assert.NotEqual(t, "supersecret", store.created[0].PasswordHash)
}

func TestServiceRegisterDuplicateEmail(t *testing.T) {
	store := newStubUserStore()
	svc, err := NewService(store, testJWTConfig(), config.PasswordConfig{})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "B", Email: "a@example.com", Password: "supersecret"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceRegisterValidation(t *testing.T) {
	store := newStubUserStore()
	svc, err := NewService(store, testJWTConfig(), config.PasswordConfig{})
	require.NoError(t, err)

	cases := []RegisterInput{
		{Name: "", Email: "x@example.com", Password: "supersecret"},
		{Name: "X", Email: "", Password: "supersecret"},
		{Name: "X", Email: "x@example.com", Password: "short"},
	}
	for _, input := range cases {
		_, err := svc.Register(context.Background(), input)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestServiceLogin(t *testing.T) {
	store := newStubUserStore()
	hash, err := security.HashPassword("supersecret", config.PasswordConfig{})
	require.NoError(t, err)
	store.byEmail["ravi@example.com"] = &models.User{
		ID:           uuid.New(),
		Name:         "Ravi",
		Email:        "ravi@example.com",
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	}

	svc, err := NewService(store, testJWTConfig(), config.PasswordConfig{})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginInput{Email: "Ravi@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "ravi@example.com", result.User.Email)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ravi@example.com", Password: "wrongpass"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())

	_, err = svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}
