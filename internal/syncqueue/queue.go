package syncqueue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// Status is a queue item's position in its lifecycle.
type Status string

const (
	// StatusPending means the item is waiting for the next drain.
	StatusPending Status = "pending"
	// StatusSyncing means a drain has claimed the item. An item found
	// syncing at drain start was orphaned by an interrupted drain and is
	// reconciled back to pending.
	StatusSyncing Status = "syncing"
	// StatusFailed means the item exhausted its retries or hit a
	// non-retryable error. Failed items are kept for inspection and
	// manual retry, never auto-discarded.
	StatusFailed Status = "failed"
)

// Item is one queued mutation. Completed items are deleted, not marked,
// so the table only ever holds pending, syncing, and failed work.
type Item struct {
	// ID is the client-generated UUID. For create operations it doubles
	// as the durable record ID once replayed.
	ID string

	// Kind tags the payload type.
	Kind OpKind

	// Payload is the JSON-encoded operation.
	Payload json.RawMessage

	// Status is the item's lifecycle state.
	Status Status

	// RetryCount is how many times a transient failure sent the item
	// back to pending.
	RetryCount int

	// LastError holds the most recent failure message, for display.
	LastError string

	// CreatedAt is the Unix timestamp when the mutation was enqueued.
	CreatedAt int64

	// LastAttemptAt is the Unix timestamp of the most recent replay
	// attempt, zero if never attempted.
	LastAttemptAt int64
}

// Operation decodes the item's payload into its typed operation.
func (it *Item) Operation() (Operation, error) {
	return decodeOperation(it.Kind, it.Payload)
}

const queueSchema = `
CREATE TABLE IF NOT EXISTS sync_queue (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    payload TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    retry_count INTEGER NOT NULL DEFAULT 0,
    last_error TEXT,
    created_at INTEGER NOT NULL,
    last_attempt_at INTEGER NOT NULL DEFAULT 0
);
`

// Queue is the durable on-device operation log. It is backed by its own
// SQLite database file, separate from any server data: the queue is
// client-resident state and survives process restarts.
type Queue struct {
	db *sql.DB
}

// Open opens (creating if necessary) the queue database at path.
func Open(path string) (*Queue, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create queue directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue database: %w", err)
	}
	if _, err := db.Exec(queueSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run queue migrations: %w", err)
	}
	return &Queue{db: db}, nil
}

// Close closes the queue database.
func (q *Queue) Close() error {
	return q.db.Close()
}

// Enqueue durably appends op as a pending item and returns it. The
// write is acknowledged by SQLite before return, so an enqueued
// mutation survives the process being killed immediately after.
//
// For create operations with no record ID yet, the item's UUID is
// assigned as the record ID. The same UUID the UI uses to render the
// optimistic result becomes the durable ID on successful sync.
func (q *Queue) Enqueue(ctx context.Context, op Operation) (*Item, error) {
	id := uuid.New().String()

	switch o := op.(type) {
	case *CreateExpense:
		if o.Expense.ID == "" {
			o.Expense.ID = id
		}
	case *CreateGroup:
		if o.Group.ID == "" {
			o.Group.ID = id
		}
	}

	payload, err := json.Marshal(op)
	if err != nil {
		return nil, fmt.Errorf("failed to encode operation: %w", err)
	}

	item := &Item{
		ID:        id,
		Kind:      op.OpKind(),
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: time.Now().Unix(),
	}

	if _, err := q.db.ExecContext(ctx,
		`INSERT INTO sync_queue (id, kind, payload, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, string(item.Kind), string(item.Payload), string(item.Status), item.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to enqueue operation: %w", err)
	}
	return item, nil
}

const selectItem = `SELECT id, kind, payload, status, retry_count, last_error, created_at, last_attempt_at FROM sync_queue`

// ListPending returns pending items in enqueue order (FIFO).
func (q *Queue) ListPending(ctx context.Context) ([]*Item, error) {
	return q.listItems(ctx, selectItem+" WHERE status = ? ORDER BY rowid", string(StatusPending))
}

// ListAll returns every queued item in enqueue order, including failed
// ones, for the pending/failed operations view.
func (q *Queue) ListAll(ctx context.Context) ([]*Item, error) {
	return q.listItems(ctx, selectItem + " ORDER BY rowid")
}

// Get retrieves one item by ID.
func (q *Queue) Get(ctx context.Context, id string) (*Item, error) {
	item, err := q.scanItem(q.db.QueryRowContext(ctx, selectItem+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("queue item not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue item: %w", err)
	}
	return item, nil
}

func (q *Queue) listItems(ctx context.Context, query string, args ...any) ([]*Item, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := q.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queue items: %w", err)
	}
	return items, nil
}

func (q *Queue) scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	item := &Item{}
	var kind, status, payload string
	var lastError sql.NullString

	err := row.Scan(&item.ID, &kind, &payload, &status, &item.RetryCount,
		&lastError, &item.CreatedAt, &item.LastAttemptAt)
	if err != nil {
		return nil, err
	}

	item.Kind = OpKind(kind)
	item.Payload = json.RawMessage(payload)
	item.Status = Status(status)
	if lastError.Valid {
		item.LastError = lastError.String
	}
	return item, nil
}

// Retry manually requeues a failed item, clearing its retry budget.
func (q *Queue) Retry(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE sync_queue SET status = ?, retry_count = 0, last_error = NULL WHERE id = ? AND status = ?",
		string(StatusPending), id, string(StatusFailed),
	)
	if err != nil {
		return fmt.Errorf("failed to retry queue item: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check retry: %w", err)
	} else if n == 0 {
		return fmt.Errorf("queue item %s is not in failed state", id)
	}
	return nil
}

// markSyncing claims an item for the current drain.
func (q *Queue) markSyncing(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE sync_queue SET status = ?, last_attempt_at = ? WHERE id = ?",
		string(StatusSyncing), time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark item syncing: %w", err)
	}
	return nil
}

// complete removes a successfully replayed item. Completed items are
// deleted outright, not flagged.
func (q *Queue) complete(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM sync_queue WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to remove completed item: %w", err)
	}
	return nil
}

// requeue sends a transiently failed item back to pending with an
// incremented retry count.
func (q *Queue) requeue(ctx context.Context, id string, cause error) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE sync_queue SET status = ?, retry_count = retry_count + 1, last_error = ? WHERE id = ?",
		string(StatusPending), cause.Error(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to requeue item: %w", err)
	}
	return nil
}

// fail marks an item terminally failed, keeping the error for display.
func (q *Queue) fail(ctx context.Context, id string, cause error) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE sync_queue SET status = ?, last_error = ? WHERE id = ?",
		string(StatusFailed), cause.Error(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark item failed: %w", err)
	}
	return nil
}

// resetStaleSyncing returns items stranded in syncing by an interrupted
// drain to pending so they are retried rather than stuck forever.
func (q *Queue) resetStaleSyncing(ctx context.Context) (int, error) {
	res, err := q.db.ExecContext(ctx,
		"UPDATE sync_queue SET status = ? WHERE status = ?",
		string(StatusPending), string(StatusSyncing),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reset stale syncing items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count reset items: %w", err)
	}
	return int(n), nil
}
