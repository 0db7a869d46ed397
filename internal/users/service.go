package users

import (
	"context"
	"fmt"

	"lanchonete/internal/auth"
	"lanchonete/internal/domain"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsActive *bool  `json:"is_active,omitempty"`
	IsOwner  bool   `json:"is_owner"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ServiceInterface interface {
	Register(ctx context.Context, req RegisterRequest) (domain.User, error)
	Login(ctx context.Context, email, password string) (Token, error)
	Get(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type Service struct {
	repo   RepositoryInterface
	tokens *auth.TokenManager
}

func NewService(repo RepositoryInterface, tokens *auth.TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	if req.Email == "" || req.Password == "" {
		return domain.User{}, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return s.repo.Create(ctx, domain.User{
		Email:          req.Email,
		HashedPassword: hash,
		IsActive:       active,
		IsOwner:        req.IsOwner,
	})
}

func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil || !auth.CheckPassword(password, u.HashedPassword) {
		return Token{}, domain.ErrInvalidCredentials
	}
	signed, err := s.tokens.Issue(u)
	if err != nil {
		return Token{}, fmt.Errorf("issue token: %w", err)
	}
	return Token{AccessToken: signed, TokenType: "bearer"}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.repo.List(ctx, limit, offset)
}
