package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carefund/internal/domain"
	"carefund/internal/repository"
)

// DonationRepository is a PostgreSQL implementation of repository.DonationRepository.
// It holds *sql.DB rather than Querier because ApplySuccessCredit opens its
// own transaction.
type DonationRepository struct {
	db *sql.DB
}

// NewDonationRepository creates a new PostgreSQL donation repository.
func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// Create persists a new donation.
func (r *DonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	query := `
		INSERT INTO donations (id, amount, donor_name, donor_phone, payment_method,
			campaign_id, event_id, message, status, provider_reference, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		donation.ID,
		donation.Amount,
		donation.DonorName,
		donation.DonorPhone,
		donation.PaymentMethod,
		donation.CampaignID,
		donation.EventID,
		donation.Message,
		donation.Status,
		donation.ProviderReference,
		donation.CreatedAt,
	)

	return err
}

// GetByID retrieves a donation by ID.
func (r *DonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	query := donationSelect + ` WHERE id = $1`

	donation, err := scanDonation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return donation, nil
}

// GetByCampaign retrieves all successful donations for a campaign, newest first.
func (r *DonationRepository) GetByCampaign(ctx context.Context, campaignID string) ([]*domain.Donation, error) {
	query := donationSelect + ` WHERE campaign_id = $1 AND status = $2 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, campaignID, domain.DonationStatusSuccess)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, donation)
	}

	return donations, rows.Err()
}

// SetProviderReference stores the provider's reference on a donation.
func (r *DonationRepository) SetProviderReference(ctx context.Context, id, reference string) error {
	query := `UPDATE donations SET provider_reference = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, reference, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ApplySuccessCredit transitions a pending donation to success and credits
// its campaign in one transaction. The conditional UPDATE on status is what
// guarantees the credit is applied at most once: a concurrent caller that
// loses the race matches zero rows and reports applied=false.
func (r *DonationRepository) ApplySuccessCredit(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE donations SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING amount, campaign_id
	`

	var amount int64
	var campaignID sql.NullString
	err = tx.QueryRowContext(ctx, query,
		domain.DonationStatusSuccess, id, domain.DonationStatusPending,
	).Scan(&amount, &campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Not pending (or unknown). Distinguish via a plain lookup so
			// callers still get ErrNotFound for unknown ids.
			var exists bool
			if lookupErr := r.db.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM donations WHERE id = $1)`, id,
			).Scan(&exists); lookupErr != nil {
				return false, lookupErr
			}
			if !exists {
				return false, repository.ErrNotFound
			}
			return false, nil
		}
		return false, err
	}

	if campaignID.Valid {
		_, err = tx.ExecContext(ctx,
			`UPDATE campaigns SET raised_amount = raised_amount + $1 WHERE id = $2`,
			amount, campaignID.String,
		)
		if err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}

// MarkFailed transitions a pending donation to failed.
func (r *DonationRepository) MarkFailed(ctx context.Context, id string) (bool, error) {
	query := `UPDATE donations SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query,
		domain.DonationStatusFailed, id, domain.DonationStatusPending,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

const donationSelect = `
	SELECT id, amount, donor_name, donor_phone, payment_method,
		COALESCE(campaign_id, ''), COALESCE(event_id, ''), message, status,
		COALESCE(provider_reference, ''), created_at
	FROM donations`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (*domain.Donation, error) {
	var donation domain.Donation
	err := row.Scan(
		&donation.ID,
		&donation.Amount,
		&donation.DonorName,
		&donation.DonorPhone,
		&donation.PaymentMethod,
		&donation.CampaignID,
		&donation.EventID,
		&donation.Message,
		&donation.Status,
		&donation.ProviderReference,
		&donation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &donation, nil
}
