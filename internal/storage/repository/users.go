package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его ID.
// Повторная регистрация email возвращает models.ErrEmailTaken.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO users (email, password_hash, full_name, company, role, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FullName, user.Company, user.Role,
		user.IsActive).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return 0, models.ErrEmailTaken
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, full_name, company, role, is_active,
			      created_at, updated_at
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, full_name, company, role, is_active,
			      created_at, updated_at
			  FROM users
			  WHERE id = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, id), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var company sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &company,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if company.Valid {
		u.Company = &company.String
	}
	return u, nil
}

// ListUsers возвращает список пользователей с пагинацией.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, full_name, company, role, is_active,
			      created_at, updated_at
			  FROM users
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u := models.User{}
		var company sql.NullString
		if err = rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &company,
			&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if company.Valid {
			u.Company = &company.String
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser частично обновляет пользователя: nil-поля запроса не меняются.
// Возвращает количество изменённых строк.
func (s *Storage) UpdateUser(ctx context.Context, id int64, upd models.UpdateUserRequest) (int64, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET full_name = COALESCE($1, full_name),
			      company = COALESCE($2, company),
			      is_active = COALESCE($3, is_active),
			      updated_at = now()
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, upd.FullName, upd.Company, upd.IsActive, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// CountAdmins возвращает число активных администраторов.
// Используется при стартовом создании учетной записи администратора.
func (s *Storage) CountAdmins(ctx context.Context) (int, error) {
	const op = "storage.CountAdmins"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM users WHERE role = 'admin'`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
