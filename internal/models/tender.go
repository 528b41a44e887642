package models

import "time"

// TenderStatus статус тендера.
type TenderStatus string

// Статусы жизненного цикла тендера.
const (
	TenderDraft     TenderStatus = "draft"     // Черновик, виден только создателю и администраторам
	TenderPublished TenderStatus = "published" // Опубликован, приём предложений ещё не открыт
	TenderBidding   TenderStatus = "bidding"   // Открыт приём предложений
	TenderReview    TenderStatus = "review"    // Предложения рассматриваются
	TenderAwarded   TenderStatus = "awarded"   // Победитель выбран
	TenderCancelled TenderStatus = "cancelled" // Тендер отменён
)

// Tender представляет тендер на закупку.
type Tender struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Budget      float64      `json:"budget"`
	Status      TenderStatus `json:"status"`
	Deadline    time.Time    `json:"deadline"`
	CreatedBy   int64        `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	BidsCount   int          `json:"bids_count"` // Актуальное число предложений по тендеру
}

// CreateTenderRequest данные для создания тендера.
type CreateTenderRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required,max=100"`
	Budget      float64 `json:"budget" validate:"required,gt=0"`
	Deadline    string  `json:"deadline" validate:"required"`
}

// UpdateTenderRequest частичное обновление тендера.
// Нулевые указатели означают "поле не менять".
type UpdateTenderRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Budget      *float64 `json:"budget" validate:"omitempty,gt=0"`
	Deadline    *string  `json:"deadline"`
	Status      *string  `json:"status" validate:"omitempty,oneof=draft published bidding review awarded cancelled"`
}

// TenderPatch типизированное частичное обновление тендера,
// подготовленное сервисом из UpdateTenderRequest.
type TenderPatch struct {
	Title       *string
	Description *string
	Category    *string
	Budget      *float64
	Deadline    *time.Time
	Status      *TenderStatus
}

// TenderFilter параметры выборки списка тендеров.
type TenderFilter struct {
	Status        string // Фильтр по статусу, пустая строка — без фильтра
	Category      string // Фильтр по категории, пустая строка — без фильтра
	IncludeDrafts bool   // Включать черновики (действует только для администраторов)
	Limit         int
	Offset        int
}

// Actor аутентифицированный инициатор запроса.
type Actor struct {
	UserID int64
	Email  string
	Role   string
}

// IsAdmin сообщает, обладает ли инициатор административными правами.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
