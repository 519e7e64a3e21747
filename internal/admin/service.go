package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pigfarm-manager/internal/models"
)

var ErrValidation = errors.New("validation failed")

// Store — операции адаптера хранилища, которые нужны админке.
type Store interface {
	CreateIfAbsent(ctx context.Context, u *models.User) (bool, error)
	UpdatePasswordHash(ctx context.Context, username, hash string) (int64, error)
	UpdateRole(ctx context.Context, username string, role models.UserRole) (int64, error)
	UpdateActive(ctx context.Context, username string, active bool) (int64, error)
	List(ctx context.Context) ([]models.User, error)
}

// Service — управление учётными записями. Доступ только для admin
// проверяется снаружи (middleware.RequireRole).
type Service struct {
	store      Store
	validate   *validator.Validate
	translator ut.Translator
	hashCost   int
	log        *zap.Logger
}

func NewService(store Store, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := registerPasswordRule(validate, trans); err != nil {
		return nil, err
	}

	return &Service{
		store:      store,
		validate:   validate,
		translator: trans,
		hashCost:   bcrypt.DefaultCost,
		log:        log,
	}, nil
}

type addUserInput struct {
	Username string `validate:"required,max=255"`
	Password string `validate:"required,bcryptmax"`
	Role     string `validate:"required,oneof=worker manager admin"`
}

type passwordInput struct {
	Username string `validate:"required"`
	Password string `validate:"required,bcryptmax"`
}

type roleInput struct {
	Username string `validate:"required"`
	Role     string `validate:"required,oneof=worker manager admin"`
}

type usernameInput struct {
	Username string `validate:"required"`
}

// AddUser создаёт пользователя с bcrypt-хешем пароля. Если username занят,
// ничего не происходит и created=false — это не ошибка.
func (s *Service) AddUser(ctx context.Context, username, password string, role models.UserRole, active bool) (bool, error) {
	username = strings.TrimSpace(username)
	if role == "" {
		role = models.RoleWorker
	}
	if err := s.check(addUserInput{Username: username, Password: password, Role: string(role)}); err != nil {
		return false, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}

	created, err := s.store.CreateIfAbsent(ctx, &models.User{
		Username:     username,
		PasswordHash: &hash,
		Role:         role,
		IsActive:     active,
	})
	if err != nil {
		return false, fmt.Errorf("add user: %w", err)
	}
	if created {
		s.log.Info("user added", zap.String("username", username), zap.String("role", string(role)))
	}
	return created, nil
}

// ChangePassword возвращает число обновлённых строк: 0 — пользователя нет.
func (s *Service) ChangePassword(ctx context.Context, username, newPassword string) (int64, error) {
	username = strings.TrimSpace(username)
	if err := s.check(passwordInput{Username: username, Password: newPassword}); err != nil {
		return 0, err
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return 0, err
	}
	rows, err := s.store.UpdatePasswordHash(ctx, username, hash)
	if err != nil {
		return 0, fmt.Errorf("change password: %w", err)
	}
	return rows, nil
}

func (s *Service) SetRole(ctx context.Context, username string, role models.UserRole) (int64, error) {
	username = strings.TrimSpace(username)
	if err := s.check(roleInput{Username: username, Role: string(role)}); err != nil {
		return 0, err
	}
	rows, err := s.store.UpdateRole(ctx, username, role)
	if err != nil {
		return 0, fmt.Errorf("set role: %w", err)
	}
	return rows, nil
}

// SetActive(false) сразу блокирует вход: следующий ResolveOrCreateRole вернёт ErrAccountDeactivated.
func (s *Service) SetActive(ctx context.Context, username string, active bool) (int64, error) {
	username = strings.TrimSpace(username)
	if err := s.check(usernameInput{Username: username}); err != nil {
		return 0, err
	}
	rows, err := s.store.UpdateActive(ctx, username, active)
	if err != nil {
		return 0, fmt.Errorf("set active: %w", err)
	}
	return rows, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, verrs[0].Translate(s.translator))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, maxPasswordBytes)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// bcrypt ограничивает пароль 72 байтами, а validator `max` считает руны.
const maxPasswordBytes = 72

func registerPasswordRule(validate *validator.Validate, trans ut.Translator) error {
	err := validate.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	if err != nil {
		return err
	}
	return validate.RegisterTranslation("bcryptmax", trans,
		func(tr ut.Translator) error {
			return tr.Add("bcryptmax", "{0} must be at most 72 bytes", true)
		},
		func(tr ut.Translator, fe validator.FieldError) string {
			msg, _ := tr.T("bcryptmax", fe.Field())
			return msg
		},
	)
}
