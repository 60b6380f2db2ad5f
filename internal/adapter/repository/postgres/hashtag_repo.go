package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// hashtagRepository implements domain.HashtagRepository
type hashtagRepository struct {
	q querier
}

// Link upserts names into the registry and links them to the operation
func (r *hashtagRepository) Link(ctx context.Context, operationID uuid.UUID, names []string) error {
	if len(names) == 0 {
		return nil
	}

	upsert := `
		INSERT INTO hashtags (name)
		SELECT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING
	`
	if _, err := r.q.ExecContext(ctx, upsert, pq.Array(names)); err != nil {
		return storeError(err, "failed to upsert hashtags")
	}

	link := `
		INSERT INTO operation_hashtags (operation_id, hashtag_id)
		SELECT $1, id FROM hashtags WHERE name = ANY($2::text[])
		ON CONFLICT DO NOTHING
	`
	if _, err := r.q.ExecContext(ctx, link, operationID, pq.Array(names)); err != nil {
		return storeError(err, "failed to link hashtags to operation %s", operationID)
	}

	return nil
}

// Unlink removes every hashtag link of the operation
func (r *hashtagRepository) Unlink(ctx context.Context, operationID uuid.UUID) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM operation_hashtags WHERE operation_id = $1`, operationID); err != nil {
		return storeError(err, "failed to unlink hashtags from operation %s", operationID)
	}
	return nil
}

// NamesFor returns the hashtag names linked to each operation
func (r *hashtagRepository) NamesFor(ctx context.Context, operationIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string, len(operationIDs))
	if len(operationIDs) == 0 {
		return result, nil
	}

	ids := make([]string, len(operationIDs))
	for i, id := range operationIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT oh.operation_id, h.name
		FROM operation_hashtags oh
		JOIN hashtags h ON h.id = oh.hashtag_id
		WHERE oh.operation_id = ANY($1::uuid[])
		ORDER BY h.name
	`

	rows, err := r.q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, storeError(err, "failed to load hashtags")
	}
	defer rows.Close()

	for rows.Next() {
		var opID uuid.UUID
		var name string
		if err := rows.Scan(&opID, &name); err != nil {
			return nil, storeError(err, "failed to scan hashtag")
		}
		result[opID] = append(result[opID], name)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "error iterating hashtags")
	}

	return result, nil
}

// List retrieves the registry with usage counts
func (r *hashtagRepository) List(ctx context.Context) ([]*domain.Hashtag, error) {
	query := `
		SELECT h.id, h.name, h.created_at, COUNT(oh.operation_id)
		FROM hashtags h
		LEFT JOIN operation_hashtags oh ON oh.hashtag_id = h.id
		GROUP BY h.id, h.name, h.created_at
		ORDER BY h.name
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError(err, "failed to list hashtags")
	}
	defer rows.Close()

	var hashtags []*domain.Hashtag
	for rows.Next() {
		var h domain.Hashtag
		if err := rows.Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UsageCount); err != nil {
			return nil, storeError(err, "failed to scan hashtag")
		}
		hashtags = append(hashtags, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "error iterating hashtags")
	}

	return hashtags, nil
}

// GetByID retrieves a hashtag by its ID
func (r *hashtagRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Hashtag, error) {
	query := `
		SELECT h.id, h.name, h.created_at,
			(SELECT COUNT(*) FROM operation_hashtags oh WHERE oh.hashtag_id = h.id)
		FROM hashtags h
		WHERE h.id = $1
	`

	var h domain.Hashtag
	if err := r.q.QueryRowContext(ctx, query, id).Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UsageCount); err != nil {
		return nil, storeError(err, "hashtag not found: %s", id)
	}
	return &h, nil
}

// Upsert returns the registry entry for name, creating it when missing
func (r *hashtagRepository) Upsert(ctx context.Context, name string) (*domain.Hashtag, error) {
	query := `
		INSERT INTO hashtags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at
	`

	var h domain.Hashtag
	if err := r.q.QueryRowContext(ctx, query, name).Scan(&h.ID, &h.Name, &h.CreatedAt); err != nil {
		return nil, storeError(err, "failed to upsert hashtag %q", name)
	}
	return &h, nil
}

// Usage returns how many operations reference the hashtag
func (r *hashtagRepository) Usage(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM operation_hashtags WHERE hashtag_id = $1`, id).Scan(&n); err != nil {
		return 0, storeError(err, "failed to count hashtag usage")
	}
	return n, nil
}

// Delete removes a hashtag; referenced hashtags are rejected by the foreign key
func (r *hashtagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM hashtags WHERE id = $1`, id)
	if err != nil {
		return storeError(err, "failed to delete hashtag")
	}
	return notFound(res, "hashtag not found: %s", id)
}
