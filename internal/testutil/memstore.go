// Package testutil provides an in-memory stand-in for the PostgreSQL
// repositories so services can be tested without a database.
package testutil

import (
	"context"
	"sort"
	"sync"

	"leltar/internal/catalog"
	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/shopspring/decimal"
)

type failure struct {
	skip int
	err  error
}

// MemStore implements the catalog, snapshot and transfer repositories over
// maps. The same unique keys as the schema are enforced.
type MemStore struct {
	mu        sync.Mutex
	nextID    int64
	products  map[int64]models.Product
	snapshots map[int64]models.Snapshot
	transfers map[int64]models.Transfer
	failures  map[string]*failure
	calls     map[string]int
}

func NewMemStore() *MemStore {
	return &MemStore{
		products:  map[int64]models.Product{},
		snapshots: map[int64]models.Snapshot{},
		transfers: map[int64]models.Transfer{},
		failures:  map[string]*failure{},
		calls:     map[string]int{},
	}
}

// FailOn makes method return err once skip calls to it have succeeded.
func (m *MemStore) FailOn(method string, skip int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[method] = &failure{skip: skip, err: err}
}

// Calls reports how often method was invoked.
func (m *MemStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MemStore) enter(method string) error {
	m.calls[method]++
	f, ok := m.failures[method]
	if !ok {
		return nil
	}
	if f.skip > 0 {
		f.skip--
		return nil
	}
	return f.err
}

func (m *MemStore) id() int64 {
	m.nextID++
	return m.nextID
}

// SeedProduct adds a product directly, bypassing failure injection.
func (m *MemStore) SeedProduct(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.products[id] = models.Product{ID: id, Name: name}
	return id
}

// Snapshots returns the month's rows ordered by id.
func (m *MemStore) Snapshots(month metadata.Month) []models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.monthLocked(month)
}

// Cell returns a copy of one snapshot row, if present.
func (m *MemStore) Cell(month metadata.Month, warehouse metadata.Warehouse, productID int64) (models.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.snapshots {
		if metadata.MonthOf(s.Month) == month && s.Warehouse == warehouse && s.ProductID == productID {
			return s, true
		}
	}
	return models.Snapshot{}, false
}

// Transfers returns the ledger ordered by id.
func (m *MemStore) Transfers() []models.Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Transfer, 0, len(m.transfers))
	for _, t := range m.transfers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetProducts"); err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) CreateProducts(ctx context.Context, names []string) (catalog.CreateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateProducts"); err != nil {
		return catalog.CreateResult{}, err
	}

	taken := map[string]struct{}{}
	for _, p := range m.products {
		taken[catalog.NormalizeName(p.Name)] = struct{}{}
	}
	for _, name := range names {
		key := catalog.NormalizeName(name)
		if _, dup := taken[key]; dup {
			return catalog.CreateResult{Kind: catalog.Conflict}, nil
		}
		taken[key] = struct{}{}
	}

	created := make([]models.Product, 0, len(names))
	for _, name := range names {
		p := models.Product{ID: m.id(), Name: name}
		m.products[p.ID] = p
		created = append(created, p)
	}
	return catalog.CreateResult{Kind: catalog.Created, Products: created}, nil
}

func (m *MemStore) DeleteMonth(ctx context.Context, month metadata.Month) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteMonth"); err != nil {
		return 0, err
	}
	var deleted int64
	for id, s := range m.snapshots {
		if metadata.MonthOf(s.Month) == month {
			delete(m.snapshots, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemStore) InsertSnapshots(ctx context.Context, rows []models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("InsertSnapshots"); err != nil {
		return err
	}

	type cellKey struct {
		month     metadata.Month
		warehouse metadata.Warehouse
		productID int64
	}
	taken := map[cellKey]struct{}{}
	for _, s := range m.snapshots {
		taken[cellKey{metadata.MonthOf(s.Month), s.Warehouse, s.ProductID}] = struct{}{}
	}
	for _, row := range rows {
		if _, ok := m.products[row.ProductID]; !ok {
			return custom_error.WrapDBError("stock_snapshots_product_id_fkey", "23503")
		}
		key := cellKey{metadata.MonthOf(row.Month), row.Warehouse, row.ProductID}
		if _, dup := taken[key]; dup {
			return custom_error.WrapDBError("stock_snapshots_cell_key", "23505")
		}
		taken[key] = struct{}{}
	}

	for _, row := range rows {
		row.ID = m.id()
		row.Month = metadata.MonthOf(row.Month).Start()
		m.snapshots[row.ID] = row
	}
	return nil
}

func (m *MemStore) GetMonthPage(ctx context.Context, month metadata.Month, offset, limit uint) ([]models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetMonthPage"); err != nil {
		return nil, err
	}
	rows := m.monthLocked(month)
	if offset >= uint(len(rows)) {
		return []models.Snapshot{}, nil
	}
	end := min(offset+limit, uint(len(rows)))
	return rows[offset:end], nil
}

func (m *MemStore) GetCell(ctx context.Context, month metadata.Month, warehouse metadata.Warehouse, productID int64) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetCell"); err != nil {
		return nil, err
	}
	for _, s := range m.snapshots {
		if metadata.MonthOf(s.Month) == month && s.Warehouse == warehouse && s.ProductID == productID {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemStore) UpdateTheoretical(ctx context.Context, id int64, theoretical decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateTheoretical"); err != nil {
		return err
	}
	s, ok := m.snapshots[id]
	if !ok {
		return &custom_error.NotFoundError{Resource: "snapshot", ID: id}
	}
	s.Theoretical = theoretical
	m.snapshots[id] = s
	return nil
}

func (m *MemStore) CountByWarehouse(ctx context.Context, month metadata.Month) (map[metadata.Warehouse]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CountByWarehouse"); err != nil {
		return nil, err
	}
	out := map[metadata.Warehouse]int{}
	for _, s := range m.snapshots {
		if metadata.MonthOf(s.Month) == month {
			out[s.Warehouse]++
		}
	}
	return out, nil
}

func (m *MemStore) InsertTransfer(ctx context.Context, t models.Transfer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("InsertTransfer"); err != nil {
		return 0, err
	}
	if _, ok := m.products[t.ProductID]; !ok {
		return 0, custom_error.WrapDBError("transfers_product_id_fkey", "23503")
	}
	t.ID = m.id()
	m.transfers[t.ID] = t
	return t.ID, nil
}

func (m *MemStore) InsertTransfers(ctx context.Context, rows []models.Transfer) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("InsertTransfers"); err != nil {
		return 0, err
	}
	for _, t := range rows {
		if _, ok := m.products[t.ProductID]; !ok {
			return 0, custom_error.WrapDBError("transfers_product_id_fkey", "23503")
		}
	}
	for _, t := range rows {
		t.ID = m.id()
		m.transfers[t.ID] = t
	}
	return len(rows), nil
}

func (m *MemStore) GetTransfer(ctx context.Context, id int64) (*models.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetTransfer"); err != nil {
		return nil, err
	}
	t, ok := m.transfers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *MemStore) DeleteTransfer(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteTransfer"); err != nil {
		return false, err
	}
	if _, ok := m.transfers[id]; !ok {
		return false, nil
	}
	delete(m.transfers, id)
	return true, nil
}

func (m *MemStore) GetTransfers(ctx context.Context, q models.TransferQuery) ([]models.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetTransfers"); err != nil {
		return nil, err
	}
	out := []models.Transfer{}
	for _, t := range m.transfers {
		if q.Month != nil && (t.Timestamp.Before(q.Month.Start()) || !t.Timestamp.Before(q.Month.Next().Start())) {
			continue
		}
		if q.ProductID != nil && t.ProductID != *q.ProductID {
			continue
		}
		if q.Warehouse != nil && t.FromWarehouse != *q.Warehouse && t.ToWarehouse != *q.Warehouse {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			if q.NewestFirst {
				return a.Timestamp.After(b.Timestamp)
			}
			return a.Timestamp.Before(b.Timestamp)
		}
		if q.NewestFirst {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (m *MemStore) monthLocked(month metadata.Month) []models.Snapshot {
	out := []models.Snapshot{}
	for _, s := range m.snapshots {
		if metadata.MonthOf(s.Month) == month {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
