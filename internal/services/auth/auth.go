// Package auth содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/tender-procurement/internal/lib/jwt"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/password"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (int64, error)
	// GetUserByEmail возвращает пользователя по email или models.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по ID или models.ErrUserNotFound.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// ListUsers возвращает список пользователей с пагинацией.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	// UpdateUser частично обновляет пользователя, возвращает число изменённых строк.
	UpdateUser(ctx context.Context, id int64, upd models.UpdateUserRequest) (int64, error)
	// CountAdmins возвращает число администраторов.
	CountAdmins(ctx context.Context) (int, error)
}

// Service отвечает за регистрацию, авторизацию, валидацию JWT
// и административное управление пользователями.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью "user".
func (s *Service) Register(ctx context.Context, email, rawPassword, fullName string, company *string) (*models.User, error) {
	return s.register(ctx, email, rawPassword, fullName, company, models.RoleUser)
}

// RegisterAdmin создает нового пользователя с ролью "admin".
// Вызывается только от имени действующего администратора.
func (s *Service) RegisterAdmin(ctx context.Context, email, rawPassword, fullName string, company *string) (*models.User, error) {
	return s.register(ctx, email, rawPassword, fullName, company, models.RoleAdmin)
}

func (s *Service) register(ctx context.Context, email, rawPassword, fullName string, company *string, role string) (*models.User, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hashed,
		FullName:     fullName,
		Company:      company,
		Role:         role,
		IsActive:     true,
	}
	id, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, id)
}

// Login проверяет пароль пользователя и генерирует JWT.
// Возвращает токен и профиль пользователя.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, models.ErrInactiveUser
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает инициатора запроса.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.Actor, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.Actor{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// GetProfile возвращает пользователя по идентификатору инициатора.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUser(ctx, userID)
}

// ListUsers возвращает список пользователей для административной панели.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.users.ListUsers(ctx, limit, offset)
}

// UpdateUser частично обновляет пользователя и возвращает обновлённый профиль.
func (s *Service) UpdateUser(ctx context.Context, id int64, upd models.UpdateUserRequest) (*models.User, error) {
	count, err := s.users.UpdateUser(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrUserNotFound
	}
	return s.users.GetUser(ctx, id)
}

// EnsureAdmin создает стартового администратора, если в базе нет ни одного.
func (s *Service) EnsureAdmin(ctx context.Context, email, rawPassword, fullName string) error {
	const op = "auth.EnsureAdmin"
	count, err := s.users.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		return nil
	}
	if _, err := s.RegisterAdmin(ctx, email, rawPassword, fullName, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created bootstrap admin", slog.String("email", email))
	return nil
}
