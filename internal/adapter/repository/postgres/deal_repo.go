package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/leadforge/backend/internal/domain"
)

// DealRepository implements usecase.DealRepository.
type DealRepository struct {
	pool *pgxpool.Pool
}

// NewDealRepository creates a new DealRepository.
func NewDealRepository(pool *pgxpool.Pool) *DealRepository {
	return &DealRepository{pool: pool}
}

const dealColumns = `id, user_id, company, contact_name, contact_email, contact_phone, cnpj,
	value, expected_close_date, stage, notes, lead_id, closed_at, created_at, updated_at`

// Create creates a new deal.
func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO deals (`+dealColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, deal.ID, deal.UserID, deal.Company, deal.ContactName, deal.ContactEmail,
		deal.ContactPhone, deal.CNPJ, deal.Value.String(), deal.ExpectedCloseDate,
		string(deal.Stage), deal.Notes, deal.LeadID, deal.ClosedAt,
		deal.CreatedAt, deal.UpdatedAt)

	return err
}

// GetByID retrieves a deal by ID.
func (r *DealRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+dealColumns+`
		FROM deals
		WHERE id = $1
	`, id)

	return scanDeal(row)
}

// ListByUser lists a user's deals, most recent first.
func (r *DealRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dealColumns+`
		FROM deals
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []*domain.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}

	return deals, rows.Err()
}

// UpdateStage moves a deal to a new stage.
func (r *DealRepository) UpdateStage(ctx context.Context, id string, stage domain.DealStage, closedAt *time.Time, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE deals
		SET stage = $2, closed_at = $3, updated_at = $4
		WHERE id = $1
	`, id, string(stage), closedAt, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDealNotFound
	}

	return nil
}

func scanDeal(row pgx.Row) (*domain.Deal, error) {
	var (
		deal  domain.Deal
		stage string
		value string
	)

	err := row.Scan(&deal.ID, &deal.UserID, &deal.Company, &deal.ContactName,
		&deal.ContactEmail, &deal.ContactPhone, &deal.CNPJ, &value,
		&deal.ExpectedCloseDate, &stage, &deal.Notes, &deal.LeadID,
		&deal.ClosedAt, &deal.CreatedAt, &deal.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDealNotFound
		}
		return nil, err
	}

	deal.Stage = domain.DealStage(stage)

	deal.Value, err = decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}

	return &deal, nil
}
