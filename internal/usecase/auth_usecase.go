package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 平文パスワードからハッシュへ
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// アクセストークンの発行の約束（本物はmain側でJWTを組む）
type AccessTokenIssuer interface {
	Issue(userID int64, now time.Time) (token string, expiresAt time.Time, err error)
}

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// AuthUsecase は会員登録とログイン。
// このサービスの残りにとっては「認証済みユーザーID」を供給する境界でしかない。
type AuthUsecase struct {
	users    repo.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
}

func NewAuthUsecase(
	users repo.UserRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		issuer:   issuer,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type UserOutput struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User        UserOutput `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
}

// Register は会員登録。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserOutput, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}
	if len(in.Password) < 8 {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	existing, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return UserOutput{}, NewHTTPError(http.StatusConflict, "email already exists")
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	now := time.Now()
	user := &model.User{
		Email:        email,
		PasswordHash: hashed,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.users.Create(ctx, user); err != nil {
		//ユニーク制約に同時登録で負けた場合もここに来る
		return UserOutput{}, NewHTTPError(http.StatusConflict, "email already exists")
	}

	return UserOutput{ID: user.ID, Email: user.Email}, nil
}

// Login はログイン。成功したらアクセストークンを返す。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//存在しない場合も資格情報エラーに寄せる（emailの在否を漏らさない）
	if user == nil || !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := time.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, now)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := u.users.Update(ctx, user); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return LoginOutput{
		User:        UserOutput{ID: user.ID, Email: user.Email},
		AccessToken: token,
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
	}, nil
}
