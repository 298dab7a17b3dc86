package service

import (
	"context"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
	"github.com/igorpreis/Store-Back-End/internal/pkg/apperr"
	"github.com/igorpreis/Store-Back-End/internal/pkg/token"
	"github.com/igorpreis/Store-Back-End/internal/pkg/util"
)

type IAuthService interface {
	Register(ctx context.Context, fullName, email, password string, role model.Role) (*model.User, error)
	// Login 驗證成功回傳 JWT
	Login(ctx context.Context, email, password string) (string, error)
}

var (
	fullNamePattern = regexp.MustCompile(`^[a-zA-Z]+ [a-zA-Z]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type AuthService struct {
	userRepo   db.IUserRepository
	tokenMaker *token.Maker
}

func NewAuthService(userRepo db.IUserRepository, tokenMaker *token.Maker) *AuthService {
	return &AuthService{userRepo: userRepo, tokenMaker: tokenMaker}
}

func (s *AuthService) Register(ctx context.Context, fullName, email, password string, role model.Role) (*model.User, error) {
	if !fullNamePattern.MatchString(fullName) {
		return nil, apperr.New(apperr.ValidationCode, "full_name must be first and last name")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperr.New(apperr.ValidationCode, "email is not valid")
	}
	if len(password) < 6 || len(password) > 42 {
		return nil, apperr.New(apperr.ValidationCode, "password must be between 6 and 42 characters")
	}
	if !role.IsValid() {
		return nil, apperr.New(apperr.ValidationCode, "role must be admin or user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.InternalCode, "failed to hash password", err)
	}

	user := &model.User{
		UserID:       util.GenerateID(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrEmailExists) {
			return nil, apperr.New(apperr.ValidationCode, "this email exists in the database")
		}
		return nil, apperr.Wrap(apperr.InternalCode, "failed to create the user in the database", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return "", apperr.New(apperr.NotFoundCode, "user not found")
		}
		return "", apperr.Wrap(apperr.InternalCode, "failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperr.New(apperr.ForbiddenCode, "invalid email or password")
	}

	jwtToken, err := s.tokenMaker.CreateToken(user.UserID, user.Role)
	if err != nil {
		return "", apperr.Wrap(apperr.InternalCode, "failed to sign token", err)
	}
	return jwtToken, nil
}

var _ IAuthService = (*AuthService)(nil)
