package alarm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Queue is a Scheduler backed by the alarms table of the local database.
type Queue struct {
	db    *sql.DB
	exact bool
}

// NewQueue returns a Queue over db. When exact is false every Schedule call
// is refused with ErrDenied.
func NewQueue(db *sql.DB, exact bool) *Queue {
	return &Queue{db: db, exact: exact}
}

func (q *Queue) Schedule(ctx context.Context, id int64, at time.Time, p Payload) error {
	if !q.exact {
		return ErrDenied
	}
	query := `INSERT INTO alarms (id, trigger_at_ms, message, payload_at_ms)
						VALUES (?, ?, ?, ?)
						ON CONFLICT (id) DO NOTHING`
	res, err := q.db.ExecContext(ctx, query, id, at.UnixMilli(), p.Message, p.TriggerAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("schedule alarm %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule alarm %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrIDInUse, id)
	}
	return nil
}

func (q *Queue) Cancel(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM alarms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("cancel alarm %d: %w", id, err)
	}
	return nil
}

func (q *Queue) Due(ctx context.Context, now time.Time) ([]Fired, error) {
	query := `SELECT id, message, payload_at_ms FROM alarms
						WHERE trigger_at_ms <= ?
						ORDER BY trigger_at_ms, id`
	rows, err := q.db.QueryContext(ctx, query, now.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := make([]Fired, 0, 4)
	for rows.Next() {
		var (
			f  Fired
			ms int64
		)
		if err := rows.Scan(&f.ID, &f.Message, &ms); err != nil {
			return nil, err
		}
		f.TriggerAt = time.UnixMilli(ms).Local()
		due = append(due, f)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return due, nil
}

func (q *Queue) Ack(ctx context.Context, id int64) error {
	return q.Cancel(ctx, id)
}

// Active reports whether an alarm is armed for id.
func (q *Queue) Active(ctx context.Context, id int64) (bool, error) {
	var one int
	err := q.db.QueryRowContext(ctx, `SELECT 1 FROM alarms WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var (
	_ Scheduler = (*Queue)(nil)
	_ Source    = (*Queue)(nil)
)
