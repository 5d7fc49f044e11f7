package service

import (
	"time"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/repository"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/Milad704/socialmedia/pkg/nlog"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(name, password string) (*entity.Account, error)
	Login(name, password string) (*entity.Account, error)
}

type localAuthService struct {
	accounts repository.AccountRepository
	logger   nlog.Logger
}

func NewAuthService(accounts repository.AccountRepository, logger nlog.Logger) AuthService {
	return &localAuthService{
		accounts: accounts,
		logger:   logger,
	}
}

func (a *localAuthService) Logf(format string, v ...any) {
	a.logger.Logf(format, v...)
}

func (a *localAuthService) Register(name, password string) (*entity.Account, error) {
	if name == "" || password == "" {
		return nil, apperr.InvalidArg("name and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		a.Logf("Could not calculate hash{%v}", err)
		return nil, apperr.Wrap(apperr.CodeUnknown, "could not hash password", err)
	}

	id := uuid.New().String()
	account := &entity.Account{
		UUID:      id,
		Name:      name,
		CreatedAt: time.Now(),
		Secret: entity.AccountSecret{
			AccountUUID: id,
			Hash:        string(hash),
		},
	}
	if err := a.accounts.Create(account); err != nil {
		return nil, err
	}

	a.Logf("Account %s registered as %s", name, id)
	return account, nil
}

func (a *localAuthService) Login(name, password string) (*entity.Account, error) {
	account, err := a.accounts.GetForLogin(name)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Secret.Hash), []byte(password)); err != nil {
		return nil, apperr.ErrWrongPassword
	}

	a.Logf("Account %s logged in", name)
	return account, nil
}
