// Package memory implementa todos los puertos de persistencia sobre mapas en memoria.
// Sirve para tests y para STORAGE_DRIVER=memory (sin durabilidad).
// Dentro de Run, los movimientos y deltas de stock quedan pendientes en la transacción
// y se publican juntos al confirmar: otros lectores nunca ven escrituras sin confirmar.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/estoque-server/internal/domain/entity"
	"github.com/jhoicas/estoque-server/internal/domain/repository"
)

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu sync.RWMutex

	categories map[int64]*entity.Category
	products   map[int64]*entity.Product
	movements  []*entity.Movement

	nextCategoryID int64
	nextProductID  int64
	nextMovementID int64

	// Bloqueos por producto (equivalente a SELECT ... FOR UPDATE); canal de capacidad 1.
	locksMu      sync.Mutex
	productLocks map[int64]chan struct{}

	// Serializa el borrado de categorías frente a altas/cambios de productos.
	catalogMu sync.Mutex
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		categories:   make(map[int64]*entity.Category),
		products:     make(map[int64]*entity.Product),
		movements:    make([]*entity.Movement, 0),
		productLocks: make(map[int64]chan struct{}),
	}
}

// Categories repositorio de categorías fuera de transacción.
func (s *Store) Categories() repository.CategoryRepository { return &CategoryRepo{s: s} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &ProductRepo{s: s} }

// Movements ledger fuera de transacción.
func (s *Store) Movements() repository.MovementRepository { return &MovementRepo{s: s} }

// Reports consultas de reportes.
func (s *Store) Reports() repository.ReportRepository { return &ReportRepo{s: s} }

// Run ejecuta fn con repositorios atados a una transacción en memoria.
// Los productos bloqueados con GetForUpdate se liberan al terminar; si fn falla se deshacen sus escrituras.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx := newTx(s, false)
	defer tx.release()

	if err := fn(&ProductRepo{s: s, tx: tx}, &MovementRepo{s: s, tx: tx}); err != nil {
		tx.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		tx.rollback()
		return err
	}
	tx.commit()
	return nil
}

// RunCatalog ejecuta fn con el catálogo bloqueado (borrado de categorías).
func (s *Store) RunCatalog(ctx context.Context, fn func(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) error) error {
	s.catalogMu.Lock()
	tx := newTx(s, true)
	defer func() {
		tx.release()
		s.catalogMu.Unlock()
	}()

	if err := fn(&CategoryRepo{s: s, tx: tx}, &ProductRepo{s: s, tx: tx}); err != nil {
		tx.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// tx registro de bloqueos y deshacer de una transacción en memoria.
type tx struct {
	s       *Store
	catalog bool // el llamador ya tiene catalogMu
	locked  map[int64]chan struct{}
	undo    []func()

	// pendientes hasta commit
	movements []*entity.Movement
	stock     map[int64]int
}

func newTx(s *Store, catalog bool) *tx {
	return &tx{s: s, catalog: catalog, locked: make(map[int64]chan struct{}), stock: make(map[int64]int)}
}

// lockProduct toma el bloqueo del producto una sola vez por transacción.
func (t *tx) lockProduct(ctx context.Context, id int64) error {
	if _, ok := t.locked[id]; ok {
		return nil
	}
	ch := t.s.productLock(id)
	select {
	case ch <- struct{}{}:
		t.locked[id] = ch
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// record agrega una función de deshacer; debe llamarse con s.mu tomado.
func (t *tx) record(fn func()) {
	if t != nil {
		t.undo = append(t.undo, fn)
	}
}

func (t *tx) rollback() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.movements = nil
	clear(t.stock)
}

// commit publica movimientos y stock pendientes en un solo paso.
func (t *tx) commit() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.movements = append(t.s.movements, t.movements...)
	for id, delta := range t.stock {
		if p, ok := t.s.products[id]; ok {
			p.StockQuantity += delta
		}
	}
	t.undo = nil
	t.movements = nil
	clear(t.stock)
}

func (t *tx) release() {
	for id, ch := range t.locked {
		<-ch
		delete(t.locked, id)
	}
}

func (s *Store) productLock(id int64) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.productLocks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.productLocks[id] = ch
	}
	return ch
}

// withCatalog toma catalogMu salvo que la transacción ya lo tenga.
func (s *Store) withCatalog(t *tx, fn func() error) error {
	if t == nil || !t.catalog {
		s.catalogMu.Lock()
		defer s.catalogMu.Unlock()
	}
	return fn()
}
