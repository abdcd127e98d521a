package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/vedran77/accounts/internal/domain"
	"github.com/vedran77/accounts/internal/repository"
)

type AccountService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   *TokenService
}

func NewAccountService(userRepo repository.UserRepository, hasher PasswordHasher, tokens *TokenService) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	LoginCred string `json:"loginCred"`
	Password  string `json:"password"`
}

// UpdateInput fields replace the stored value only when non-empty.
type UpdateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photoURL"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type AuthResult struct {
	User  domain.UserDetails `json:"user"`
	Token string             `json:"token"`
}

func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.UserName = strings.TrimSpace(input.UserName)
	input.Email = normalizeEmail(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)

	existing, err := s.userRepo.FindByEmailOrUsername(ctx, input.Email, input.UserName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Email == input.Email {
			return nil, ErrEmailTaken
		}
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Name:     input.Name,
		UserName: input.UserName,
		Email:    input.Email,
		Password: hash,
		Phone:    input.Phone,
		Role:     domain.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, s.duplicateOnRegister(ctx, input)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.authResult(user)
}

func (s *AccountService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByLogin(ctx, strings.TrimSpace(input.LoginCred))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !user.HasPassword() {
		return nil, ErrExternalAccount
	}

	if !s.hasher.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.authResult(user)
}

func (s *AccountService) ListUsers(ctx context.Context) ([]domain.UserDetails, error) {
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]domain.UserDetails, 0, len(users))
	for i := range users {
		details = append(details, users[i].Details())
	}
	return details, nil
}

func (s *AccountService) GetUser(ctx context.Context, id string) (*domain.UserDetails, error) {
	user, err := s.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}

	details := user.Details()
	return &details, nil
}

func (s *AccountService) UpdateUser(ctx context.Context, id string, input UpdateInput) (*domain.UserDetails, error) {
	user, err := s.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = firstNonEmpty(strings.TrimSpace(input.Name), user.Name)
	user.Email = firstNonEmpty(normalizeEmail(input.Email), user.Email)
	user.Phone = firstNonEmpty(strings.TrimSpace(input.Phone), user.Phone)
	user.PhotoURL = firstNonEmpty(strings.TrimSpace(input.PhotoURL), user.PhotoURL)

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	details := user.Details()
	return &details, nil
}

func (s *AccountService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.activeUser(ctx, id)
	if err != nil {
		return err
	}

	user.IsDeleted = true
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func (s *AccountService) ChangePassword(ctx context.Context, id string, input ChangePasswordInput) error {
	user, err := s.activeUser(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(input.CurrentPassword, user.Password) {
		return ErrWrongPassword
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user.Password = hash
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	return nil
}

func (s *AccountService) activeUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AccountService) authResult(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &AuthResult{User: user.Details(), Token: token}, nil
}

// duplicateOnRegister resolves which field lost a concurrent register race.
func (s *AccountService) duplicateOnRegister(ctx context.Context, input RegisterInput) error {
	existing, err := s.userRepo.FindByEmailOrUsername(ctx, input.Email, input.UserName)
	if err != nil {
		return fmt.Errorf("resolving duplicate user: %w", err)
	}
	if existing != nil && existing.Email != input.Email {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

// normalizeEmail reduces "Name <addr>" forms to the bare address so the
// stored value matches what users type at login.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if addr, err := mail.ParseAddress(email); err == nil {
		return addr.Address
	}
	return email
}

func firstNonEmpty(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
