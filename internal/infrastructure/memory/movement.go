package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

// MovementRepo ledger append-only en memoria.
type MovementRepo struct {
	s  *Store
	tx *tx
}

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextMovementID++
	m.ID = r.s.nextMovementID
	cp := *m
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, &cp)
		return nil
	}
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Movement, 0, len(r.s.movements))
	for _, m := range r.s.movements {
		if f.ProductID != 0 && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Timestamp.After(*f.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
