// Package models содержит доменные структуры системы тендерных закупок:
// пользователей, тендеры, предложения и запись лицензионного ключа.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей системы.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64      // Уникальный идентификатор пользователя
	Email        string     // Электронная почта (уникальная)
	PasswordHash string     // Хэш пароля пользователя
	FullName     string     // Полное имя
	Company      *string    // Компания (необязательное поле)
	Role         string     // Роль пользователя, admin или user
	IsActive     bool       // Признак активности учетной записи
	CreatedAt    time.Time  // Дата создания
	UpdatedAt    time.Time  // Дата последнего обновления
}

// UserPublic публичный профиль пользователя, отдаваемый в API-ответах.
type UserPublic struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Company   *string   `json:"company,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Public возвращает публичный профиль пользователя без хэша пароля.
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Company:   u.Company,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// UpdateUserRequest частичное обновление пользователя администратором.
// Нулевые указатели означают "поле не менять".
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1"`
	Company  *string `json:"company"`
	IsActive *bool   `json:"is_active"`
}
