package models

import "time"

// BidStatus статус предложения.
type BidStatus string

// Статусы предложения.
const (
	BidPending  BidStatus = "pending"  // Предложение подано и ожидает решения
	BidAccepted BidStatus = "accepted" // Предложение принято, тендер присуждён
	BidRejected BidStatus = "rejected" // Предложение отклонено
)

// Bid представляет ценовое предложение участника по тендеру.
type Bid struct {
	ID        int64     `json:"id"`
	TenderID  int64     `json:"tender_id"`
	BidderID  int64     `json:"bidder_id"`
	Amount    float64   `json:"amount"`
	Proposal  string    `json:"proposal"`
	Status    BidStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BidWithBidder предложение вместе с публичным профилем участника.
// Используется в административном списке предложений по тендеру.
type BidWithBidder struct {
	Bid
	Bidder UserPublic `json:"bidder"`
}

// SubmitBidRequest данные для подачи предложения.
type SubmitBidRequest struct {
	TenderID int64   `json:"tender_id" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Proposal string  `json:"proposal" validate:"required"`
}

// UpdateBidStatusRequest решение администратора по предложению.
type UpdateBidStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// BidDecisionEvent событие о решении по предложению,
// публикуется в очередь уведомлений для отправки письма участнику.
type BidDecisionEvent struct {
	BidID       int64   `json:"bid_id"`
	TenderID    int64   `json:"tender_id"`
	TenderTitle string  `json:"tender_title"`
	BidderEmail string  `json:"bidder_email"`
	Amount      float64 `json:"amount"`
	Decision    string  `json:"decision"`
}
