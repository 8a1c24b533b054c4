package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stafflink/concierge/internal/domain"
	apperrors "github.com/stafflink/concierge/internal/errors"
)

// ProfileRepository implements domain.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByUserID retrieves a visitor profile with quotes, recent activity,
// and lead-capture flags. A missing visitor returns a not-found error;
// callers treat that as "anonymous", not a failure.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := WithQueryTimeout(ctx)
	defer cancel()

	query := `
		SELECT user_id, user_type, first_name, last_name, email, company, industry,
		       created_at, last_seen_at
		FROM visitors
		WHERE user_id = $1`

	profile := &domain.Profile{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.UserType,
		&profile.FirstName,
		&profile.LastName,
		&profile.Email,
		&profile.Company,
		&profile.Industry,
		&profile.CreatedAt,
		&profile.LastSeenAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("profile")
		}
		return nil, apperrors.DatabaseError("ProfileRepository.GetByUserID", err)
	}

	if profile.Quotes, err = r.loadQuotes(ctx, userID); err != nil {
		return nil, err
	}
	if profile.RecentActivity, err = r.loadRecentActivity(ctx, userID); err != nil {
		return nil, err
	}
	if profile.LeadCapture, err = r.loadLeadCapture(ctx, userID); err != nil {
		return nil, err
	}

	return profile, nil
}

// TouchLastSeen records that the visitor was active. Best effort; the
// caller logs and ignores failures.
func (r *ProfileRepository) TouchLastSeen(ctx context.Context, userID string) error {
	ctx, cancel := WithWriteTimeout(ctx)
	defer cancel()

	query := `UPDATE visitors SET last_seen_at = NOW() WHERE user_id = $1`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return apperrors.DatabaseError("ProfileRepository.TouchLastSeen", err)
	}
	return nil
}

// loadQuotes returns the visitor's quotes, most recent first.
func (r *ProfileRepository) loadQuotes(ctx context.Context, userID string) ([]domain.Quote, error) {
	query := `
		SELECT id, role_title, industry, team_size, monthly_total, currency, created_at
		FROM quotes
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.DatabaseError("ProfileRepository.loadQuotes", err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		var q domain.Quote
		if err := rows.Scan(
			&q.ID,
			&q.RoleTitle,
			&q.Industry,
			&q.TeamSize,
			&q.MonthlyTotal,
			&q.Currency,
			&q.CreatedAt,
		); err != nil {
			return nil, apperrors.DatabaseError("ProfileRepository.loadQuotes", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("ProfileRepository.loadQuotes", err)
	}

	return quotes, nil
}

// loadRecentActivity returns the visitor's latest page visits, bounded
// by domain.MaxRecentActivity.
func (r *ProfileRepository) loadRecentActivity(ctx context.Context, userID string) ([]domain.PageVisit, error) {
	query := `
		SELECT path, title, visited_at
		FROM page_visits
		WHERE user_id = $1
		ORDER BY visited_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, domain.MaxRecentActivity)
	if err != nil {
		return nil, apperrors.DatabaseError("ProfileRepository.loadRecentActivity", err)
	}
	defer rows.Close()

	var visits []domain.PageVisit
	for rows.Next() {
		var v domain.PageVisit
		if err := rows.Scan(&v.Path, &v.Title, &v.VisitedAt); err != nil {
			return nil, apperrors.DatabaseError("ProfileRepository.loadRecentActivity", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("ProfileRepository.loadRecentActivity", err)
	}

	return visits, nil
}

// loadLeadCapture returns the visitor's lead-capture flags. A missing
// row means no milestone has been reached yet.
func (r *ProfileRepository) loadLeadCapture(ctx context.Context, userID string) (domain.LeadCaptureStatus, error) {
	query := `
		SELECT contact_captured, company_captured, pricing_requested
		FROM lead_capture
		WHERE user_id = $1`

	var status domain.LeadCaptureStatus
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&status.ContactCaptured,
		&status.CompanyCaptured,
		&status.PricingRequested,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LeadCaptureStatus{}, nil
		}
		return domain.LeadCaptureStatus{}, apperrors.DatabaseError("ProfileRepository.loadLeadCapture", err)
	}

	return status, nil
}
