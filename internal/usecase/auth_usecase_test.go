package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fixedIssuer struct {
	token string
	ttl   time.Duration
}

func (i *fixedIssuer) Issue(userID int64, now time.Time) (string, time.Time, error) {
	return i.token, now.Add(i.ttl), nil
}

func newAuthFixture() (*AuthUsecase, *UserRepoMock) {
	users := &UserRepoMock{}
	uc := NewAuthUsecase(users, NewBcryptPasswordHasher(4), NewBcryptPasswordVerifier(), &fixedIssuer{token: "tok", ttl: 15 * time.Minute})
	return uc, users
}

func TestAuth_Register_NormalizesEmail(t *testing.T) {
	uc, users := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		u.ID = 1
		return u.Email == "a@example.com" && u.PasswordHash != "password1" && u.IsActive
	})).Return(nil)

	out, err := uc.Register(context.Background(), RegisterInput{Email: "  A@Example.COM ", Password: "password1"})
	assert.NoError(t, err)
	assert.Equal(t, "a@example.com", out.Email)
}

func TestAuth_Register_DuplicateEmailIs409(t *testing.T) {
	uc, users := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: 1, Email: "a@example.com"}, nil)

	_, err := uc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "password1"})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
}

func TestAuth_Register_ShortPasswordIs400(t *testing.T) {
	uc, _ := newAuthFixture()

	_, err := uc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "short"})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestAuth_Login_IssuesToken(t *testing.T) {
	uc, users := newAuthFixture()

	hasher := NewBcryptPasswordHasher(4)
	hashed, err := hasher.Hash("password1")
	assert.NoError(t, err)

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: 1, Email: "a@example.com", PasswordHash: hashed, IsActive: true}, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.LastLoginAt != nil
	})).Return(nil)

	out, err := uc.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "password1"})
	assert.NoError(t, err)
	assert.Equal(t, "tok", out.AccessToken)
	assert.Equal(t, int64(900), out.ExpiresIn)
}

// 未登録もパスワード不一致も同じ401（emailの在否を漏らさない）
func TestAuth_Login_InvalidCredentialsAreUniform(t *testing.T) {
	uc, users := newAuthFixture()

	hasher := NewBcryptPasswordHasher(4)
	hashed, _ := hasher.Hash("password1")

	users.On("FindByEmail", mock.Anything, "missing@example.com").Return(nil, nil)
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: 1, Email: "a@example.com", PasswordHash: hashed, IsActive: true}, nil)

	_, err1 := uc.Login(context.Background(), LoginInput{Email: "missing@example.com", Password: "password1"})
	_, err2 := uc.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "wrongpass"})

	he1, ok1 := AsHTTPError(err1)
	he2, ok2 := AsHTTPError(err2)
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, http.StatusUnauthorized, he1.Status)
	assert.Equal(t, he1.Message, he2.Message)
}
