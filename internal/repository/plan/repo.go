package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/trajplan/internal/db"
	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/report"
)

// store is the consumer interface for plan persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo persists planning reports as JSON values.
type Repo struct {
	store  store
	prefix string
}

// New creates a plan repository. Keys are prefixed with prefix + "plan:".
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix + "plan:"}
}

// Save stores a report. A zero ttl keeps it until deleted.
func (r *Repo) Save(ctx context.Context, rep report.Report, ttl time.Duration) error {
	data, err := json.Marshal(toRecord(rep))
	if err != nil {
		return fmt.Errorf("marshal plan %s: %w", rep.ID, err)
	}
	if err := r.store.SetWithTTL(ctx, r.key(rep.ID), data, ttl); err != nil {
		return fmt.Errorf("save plan %s: %w", rep.ID, err)
	}
	return nil
}

// Get loads a report. Missing or expired plans return domain.ErrPlanNotFound.
func (r *Repo) Get(ctx context.Context, id string) (report.Report, error) {
	data, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return report.Report{}, domain.ErrPlanNotFound
		}
		return report.Report{}, fmt.Errorf("get plan %s: %w", id, err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return report.Report{}, fmt.Errorf("decode plan %s: %w", id, err)
	}
	return rec.toDomain(), nil
}

// Delete removes a report.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("delete plan %s: %w", id, err)
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.prefix + id
}
