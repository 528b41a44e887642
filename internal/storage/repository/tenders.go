package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// CreateTender вставляет новый тендер и возвращает его ID.
func (s *Storage) CreateTender(ctx context.Context, tender models.Tender) (int64, error) {
	const op = "storage.CreateTender"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tenders (title, description, category, budget, status, deadline, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		tender.Title, tender.Description, tender.Category, tender.Budget,
		tender.Status, tender.Deadline, tender.CreatedBy).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetTender возвращает тендер по его ID вместе с актуальным числом предложений.
func (s *Storage) GetTender(ctx context.Context, id int64) (*models.Tender, error) {
	const op = "storage.GetTender"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.id, t.title, t.description, t.category, t.budget, t.status,
			      t.deadline, t.created_by, t.created_at, t.updated_at,
			      (SELECT COUNT(*) FROM bids b WHERE b.tender_id = t.id) AS bids_count
			  FROM tenders t
			  WHERE t.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Tender
	if err := row.Scan(&result.ID, &result.Title, &result.Description, &result.Category,
		&result.Budget, &result.Status, &result.Deadline, &result.CreatedBy,
		&result.CreatedAt, &result.UpdatedAt, &result.BidsCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTenderNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListTenders возвращает список тендеров по фильтру, отсортированный
// по дате создания (новые первыми), каждый с актуальным числом предложений.
func (s *Storage) ListTenders(ctx context.Context, filter models.TenderFilter) ([]*models.Tender, error) {
	const op = "storage.ListTenders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.id, t.title, t.description, t.category, t.budget, t.status,
			      t.deadline, t.created_by, t.created_at, t.updated_at,
			      (SELECT COUNT(*) FROM bids b WHERE b.tender_id = t.id) AS bids_count
			  FROM tenders t
			  WHERE ($1 OR t.status <> 'draft')
			    AND ($2 = '' OR t.status = $2)
			    AND ($3 = '' OR t.category = $3)
			  ORDER BY t.created_at DESC
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.IncludeDrafts, filter.Status, filter.Category, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Tender
	for rows.Next() {
		var item models.Tender
		if err = rows.Scan(&item.ID, &item.Title, &item.Description, &item.Category,
			&item.Budget, &item.Status, &item.Deadline, &item.CreatedBy,
			&item.CreatedAt, &item.UpdatedAt, &item.BidsCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateTender частично обновляет тендер: nil-поля запроса не меняются.
// Возвращает количество изменённых строк.
func (s *Storage) UpdateTender(ctx context.Context, id int64, patch models.TenderPatch) (int64, error) {
	const op = "storage.UpdateTender"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tenders
			  SET title = COALESCE($1, title),
			      description = COALESCE($2, description),
			      category = COALESCE($3, category),
			      budget = COALESCE($4, budget),
			      deadline = COALESCE($5, deadline),
			      status = COALESCE($6, status),
			      updated_at = now()
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		patch.Title, patch.Description, patch.Category, patch.Budget, patch.Deadline, patch.Status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// SetTenderStatus устанавливает статус тендера без проверки предыдущего
// состояния. Возвращает количество изменённых строк.
func (s *Storage) SetTenderStatus(ctx context.Context, id int64, status models.TenderStatus) (int64, error) {
	const op = "storage.SetTenderStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tenders
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

// DeleteTender удаляет тендер; связанные предложения удаляются каскадно
// ограничением внешнего ключа. Возвращает количество удалённых строк.
func (s *Storage) DeleteTender(ctx context.Context, id int64) (int64, error) {
	const op = "storage.DeleteTender"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM tenders WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
