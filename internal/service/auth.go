package service

import (
	"context"
	"errors"
	"fmt"

	"bookstore/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is a validated registration request
type RegisterInput struct {
	Email     string
	Phone     string
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// AuthService registers users and exchanges credentials for tokens
type AuthService struct {
	users   UserStore
	tokens  TokenGenerator
	cost    int             // bcrypt cost
	balance decimal.Decimal // Opening wallet balance
	log     logrus.FieldLogger
}

// NewAuthService creates an AuthService. Costs outside bcrypt's range fall back
// to bcrypt.DefaultCost.
func NewAuthService(users UserStore, tokens TokenGenerator, cost int, balance decimal.Decimal, log logrus.FieldLogger) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, cost: cost, balance: balance, log: log}
}

// Register hashes the password and stores the user together with a wallet holding
// the opening balance
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, *domain.Wallet, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Email:        in.Email,
		Phone:        in.Phone,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	wallet := &domain.Wallet{Balance: s.balance}
	if err := s.users.CreateWithWallet(ctx, user, wallet); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, nil, err
		}
		s.log.WithField("error", err.Error()).Warn("Registration failed")
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrRegistration, err)
	}
	s.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"balance":  wallet.Balance.String(),
	}).Info("User registered")
	return user, wallet, nil
}

// Login verifies the credentials and returns a signed token. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.users.FindByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredential
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.WithField("user_id", user.ID).Warn("Login rejected")
		return "", domain.ErrInvalidCredential
	}
	token, err := s.tokens.GenerateJWT(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
