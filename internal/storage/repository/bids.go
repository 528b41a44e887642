package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// CreateBid вставляет новое предложение и возвращает его ID.
// Повторное предложение той же пары (тендер, участник) упирается
// в ограничение уникальности и возвращает models.ErrDuplicateBid.
func (s *Storage) CreateBid(ctx context.Context, bid models.Bid) (int64, error) {
	const op = "storage.CreateBid"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO bids (tender_id, bidder_id, amount, proposal, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		bid.TenderID, bid.BidderID, bid.Amount, bid.Proposal, bid.Status).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, models.ErrDuplicateBid
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetBid возвращает предложение по его ID.
func (s *Storage) GetBid(ctx context.Context, id int64) (*models.Bid, error) {
	const op = "storage.GetBid"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tender_id, bidder_id, amount, proposal, status, created_at, updated_at
			  FROM bids
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Bid
	if err := row.Scan(&result.ID, &result.TenderID, &result.BidderID, &result.Amount,
		&result.Proposal, &result.Status, &result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBidNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// HasBid сообщает, подавал ли участник предложение по тендеру.
func (s *Storage) HasBid(ctx context.Context, tenderID, bidderID int64) (bool, error) {
	const op = "storage.HasBid"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM bids WHERE tender_id = $1 AND bidder_id = $2)`
	if err := s.DB.QueryRowContext(ctx, query, tenderID, bidderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListBidsByTender возвращает предложения по тендеру, отсортированные
// по возрастанию суммы, каждое с публичным профилем участника.
func (s *Storage) ListBidsByTender(ctx context.Context, tenderID int64) ([]*models.BidWithBidder, error) {
	const op = "storage.ListBidsByTender"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT b.id, b.tender_id, b.bidder_id, b.amount, b.proposal, b.status,
			      b.created_at, b.updated_at,
			      u.id, u.email, u.full_name, u.company, u.role, u.is_active, u.created_at
			  FROM bids b
			  JOIN users u ON u.id = b.bidder_id
			  WHERE b.tender_id = $1
			  ORDER BY b.amount ASC`
	rows, err := s.DB.QueryContext(ctx, query, tenderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.BidWithBidder
	for rows.Next() {
		var item models.BidWithBidder
		var company sql.NullString
		if err = rows.Scan(&item.ID, &item.TenderID, &item.BidderID, &item.Amount,
			&item.Proposal, &item.Status, &item.CreatedAt, &item.UpdatedAt,
			&item.Bidder.ID, &item.Bidder.Email, &item.Bidder.FullName, &company,
			&item.Bidder.Role, &item.Bidder.IsActive, &item.Bidder.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if company.Valid {
			item.Bidder.Company = &company.String
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListBidsByBidder возвращает предложения участника, новые первыми.
func (s *Storage) ListBidsByBidder(ctx context.Context, bidderID int64) ([]*models.Bid, error) {
	const op = "storage.ListBidsByBidder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tender_id, bidder_id, amount, proposal, status, created_at, updated_at
			  FROM bids
			  WHERE bidder_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, bidderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Bid
	for rows.Next() {
		var item models.Bid
		if err = rows.Scan(&item.ID, &item.TenderID, &item.BidderID, &item.Amount,
			&item.Proposal, &item.Status, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateBidStatus устанавливает статус предложения.
// Возвращает количество изменённых строк.
func (s *Storage) UpdateBidStatus(ctx context.Context, id int64, status models.BidStatus) (int64, error) {
	const op = "storage.UpdateBidStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE bids
			  SET status = $1, updated_at = now()
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
