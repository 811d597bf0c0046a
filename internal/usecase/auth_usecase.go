package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"orderapi/internal/domain/model"
	"orderapi/internal/repository"
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

type UserDTO struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	IsActive     bool   `json:"is_active"`
}

type JwtAccessTokenDTO struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

type AuthRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthRegisterResponse struct {
	User UserDTO `json:"user"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthLoginResponse struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type AuthUsecase struct {
	users    repository.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

// DI
func NewAuthUsecase(
	users repository.UserRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// 会員登録
func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (AuthRegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return AuthRegisterResponse{}, NewValidationError(FieldError{Msg: "Please include a valid email", Param: "email", Location: "body"})
	}
	if len(req.Password) < 8 {
		return AuthRegisterResponse{}, NewValidationError(FieldError{Msg: "Please enter a password with 8 or more characters", Param: "password", Location: "body"})
	}

	// email重複チェック
	existing, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return AuthRegisterResponse{}, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return AuthRegisterResponse{}, NewHTTPError(http.StatusConflict, "User already exists")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	hashed, err := u.hasher.Hash(req.Password)
	if err != nil {
		return AuthRegisterResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := u.clock.Now()
	user := &model.User{
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleUser,
		TokenVersion: 0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return AuthRegisterResponse{}, NewHTTPError(http.StatusConflict, "User already exists")
		}
		return AuthRegisterResponse{}, fmt.Errorf("create user: %w", err)
	}

	return AuthRegisterResponse{User: toUserDTO(user)}, nil
}

// ログイン
func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (AuthLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	//ユーザー取得
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return AuthLoginResponse{}, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil {
		return AuthLoginResponse{}, NewHTTPError(http.StatusUnauthorized, "Invalid Credentials")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return AuthLoginResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	//パスワード照合
	if !u.verifier.Verify(req.Password, user.PasswordHash) {
		return AuthLoginResponse{}, NewHTTPError(http.StatusUnauthorized, "Invalid Credentials")
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return AuthLoginResponse{}, fmt.Errorf("issue token: %w", err)
	}

	//最終ログイン時刻更新
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user); err != nil {
		return AuthLoginResponse{}, fmt.Errorf("update last login: %w", err)
	}

	return AuthLoginResponse{
		User: toUserDTO(user),
		Token: JwtAccessTokenDTO{
			AccessToken:  token,
			ExpiresIn:    int(expiresAt.Sub(now).Seconds()),
			TokenVersion: user.TokenVersion,
		},
	}, nil
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Role:         string(u.Role),
		TokenVersion: u.TokenVersion,
		IsActive:     u.IsActive,
	}
}
