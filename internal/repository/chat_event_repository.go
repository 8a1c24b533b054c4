package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stafflink/concierge/internal/domain"
	apperrors "github.com/stafflink/concierge/internal/errors"
)

// ChatEventRepository implements domain.ChatEventRepository using PostgreSQL.
type ChatEventRepository struct {
	pool *pgxpool.Pool
}

// NewChatEventRepository creates a new ChatEventRepository.
func NewChatEventRepository(pool *pgxpool.Pool) *ChatEventRepository {
	return &ChatEventRepository{pool: pool}
}

// Record inserts a chat event. Only derived fields are stored; the
// event never carries raw message text.
func (r *ChatEventRepository) Record(ctx context.Context, event *domain.ChatEvent) error {
	ctx, cancel := WithWriteTimeout(ctx)
	defer cancel()

	topics := make([]string, len(event.Topics))
	for i, topic := range event.Topics {
		topics[i] = string(topic)
	}

	query := `
		INSERT INTO chat_events (id, user_id, intent, stage, topics, urgency,
		                         component_count, degraded, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.UserID,
		string(event.Intent),
		string(event.Stage),
		topics,
		string(event.Urgency),
		event.ComponentCount,
		event.Degraded,
		event.Duration.Milliseconds(),
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.DatabaseError("ChatEventRepository.Record", err)
	}

	return nil
}

// CountByIntent returns event counts grouped by intent.
func (r *ChatEventRepository) CountByIntent(ctx context.Context) (map[domain.Intent]int, error) {
	ctx, cancel := WithListQueryTimeout(ctx)
	defer cancel()

	query := `
		SELECT intent, COUNT(*)
		FROM chat_events
		GROUP BY intent`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.DatabaseError("ChatEventRepository.CountByIntent", err)
	}
	defer rows.Close()

	counts := make(map[domain.Intent]int)
	for rows.Next() {
		var intent string
		var count int
		if err := rows.Scan(&intent, &count); err != nil {
			return nil, apperrors.DatabaseError("ChatEventRepository.CountByIntent", err)
		}
		counts[domain.Intent(intent)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("ChatEventRepository.CountByIntent", err)
	}

	return counts, nil
}
