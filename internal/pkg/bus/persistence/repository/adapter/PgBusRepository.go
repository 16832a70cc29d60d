package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
)

type PgBusRepository struct {
	pool *pgxpool.Pool
}

func NewPgBusRepository(pool *pgxpool.Pool) *PgBusRepository {
	return &PgBusRepository{pool: pool}
}

const busColumns = `
	b.id::text, b.bus_number, b.route, b.capacity, b.status,
	b.created_by::text, COALESCE(u.name, ''), COALESCE(u.email, ''),
	b.stream_url, b.video_url, b.public_access_token,
	b.video_task_id, b.video_status,
	b.current_crowd_level, b.current_count, b.is_monitoring,
	b.created_at, b.updated_at`

func scanBus(row pgx.Row) (*bus.Bus, error) {
	var b bus.Bus
	err := row.Scan(
		&b.ID, &b.BusNumber, &b.Route, &b.Capacity, &b.Status,
		&b.CreatedBy.ID, &b.CreatedBy.Name, &b.CreatedBy.Email,
		&b.StreamURL, &b.VideoURL, &b.PublicAccessToken,
		&b.VideoTaskID, &b.VideoStatus,
		&b.CurrentCrowdLevel, &b.CurrentCount, &b.IsMonitoring,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PgBusRepository) Create(ctx context.Context, b bus.Bus) (*bus.Bus, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgBusRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO buses (bus_number, route, capacity, status, stream_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6::uuid)
		RETURNING id::text
	`, b.BusNumber, b.Route, b.Capacity, b.Status, b.StreamURL, b.CreatedBy.ID).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *PgBusRepository) FindByID(ctx context.Context, id string) (*bus.Bus, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgBusRepository: nil pool")
	}
	return scanBus(r.pool.QueryRow(ctx, `
		SELECT `+busColumns+`
		FROM buses b LEFT JOIN users u ON u.id = b.created_by
		WHERE b.id = $1::uuid
	`, id))
}

func (r *PgBusRepository) FindByNumber(ctx context.Context, busNumber string) (*bus.Bus, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgBusRepository: nil pool")
	}
	return scanBus(r.pool.QueryRow(ctx, `
		SELECT `+busColumns+`
		FROM buses b LEFT JOIN users u ON u.id = b.created_by
		WHERE b.bus_number = $1
	`, busNumber))
}

func (r *PgBusRepository) FindByPublicToken(ctx context.Context, token string) (*bus.Bus, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgBusRepository: nil pool")
	}
	return scanBus(r.pool.QueryRow(ctx, `
		SELECT `+busColumns+`
		FROM buses b LEFT JOIN users u ON u.id = b.created_by
		WHERE b.public_access_token = $1
	`, token))
}

func (r *PgBusRepository) List(ctx context.Context) ([]bus.Bus, error) {
	return r.list(ctx, `
		SELECT `+busColumns+`
		FROM buses b LEFT JOIN users u ON u.id = b.created_by
		ORDER BY b.updated_at DESC
	`)
}

func (r *PgBusRepository) ListByCreator(ctx context.Context, userID string) ([]bus.Bus, error) {
	return r.list(ctx, `
		SELECT `+busColumns+`
		FROM buses b LEFT JOIN users u ON u.id = b.created_by
		WHERE b.created_by = $1::uuid
		ORDER BY b.updated_at DESC
	`, userID)
}

func (r *PgBusRepository) list(ctx context.Context, query string, args ...any) ([]bus.Bus, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgBusRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []bus.Bus
	for rows.Next() {
		b, err := scanBus(rows)
		if err != nil {
			return nil, err
		}
		buses = append(buses, *b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return buses, nil
}

func (r *PgBusRepository) Update(ctx context.Context, id string, u bus.Update) (*bus.Bus, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgBusRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE buses SET
			bus_number          = COALESCE($2, bus_number),
			route               = COALESCE($3, route),
			capacity            = COALESCE($4, capacity),
			status              = COALESCE($5, status),
			stream_url          = COALESCE($6, stream_url),
			current_crowd_level = COALESCE($7, current_crowd_level),
			current_count       = COALESCE($8, current_count),
			is_monitoring       = COALESCE($9, is_monitoring),
			updated_at          = now()
		WHERE id = $1::uuid
	`, id, u.BusNumber, u.Route, u.Capacity, u.Status, u.StreamURL,
		u.CurrentCrowdLevel, u.CurrentCount, u.IsMonitoring)
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *PgBusRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgBusRepository: nil pool")
	}
	// Messages for the bus go with it.
	if _, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE bus_id = $1::uuid`, id); err != nil {
		return err
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM buses WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgBusRepository) SetCrowd(ctx context.Context, id string, level bus.CrowdLevel, count int) error {
	if r == nil || r.pool == nil {
		return errors.New("PgBusRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE buses
		SET current_crowd_level = $2, current_count = $3, updated_at = now()
		WHERE id = $1::uuid
	`, id, level, count)
	return err
}

func (r *PgBusRepository) SetMonitoring(ctx context.Context, id string, monitoring bool) error {
	if r == nil || r.pool == nil {
		return errors.New("PgBusRepository: nil pool")
	}
	if monitoring {
		_, err := r.pool.Exec(ctx, `
			UPDATE buses
			SET is_monitoring = true, current_crowd_level = 'Unknown', updated_at = now()
			WHERE id = $1::uuid
		`, id)
		return err
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE buses SET is_monitoring = false, updated_at = now() WHERE id = $1::uuid
	`, id)
	return err
}

func (r *PgBusRepository) SetVideoTask(ctx context.Context, id string, taskID *string, status *string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgBusRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE buses SET video_task_id = $2, video_status = $3, updated_at = now()
		WHERE id = $1::uuid
	`, id, taskID, status)
	return err
}

func (r *PgBusRepository) SetPublicToken(ctx context.Context, id string, token string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgBusRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE buses SET public_access_token = $2, updated_at = now() WHERE id = $1::uuid
	`, id, token)
	return err
}

func (r *PgBusRepository) SetVideoURL(ctx context.Context, id string, videoURL string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgBusRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE buses SET video_url = $2, updated_at = now() WHERE id = $1::uuid
	`, id, videoURL)
	return err
}
