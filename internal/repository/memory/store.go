// Package memory is an in-process implementation of repository.Store used
// for demo mode (no database configured) and by the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Store struct {
	mu     sync.Mutex
	data   *dataset
	faults map[string]error
}

type dataset struct {
	seq       int64
	order     map[uuid.UUID]int64
	products  map[uuid.UUID]model.Product
	customers map[uuid.UUID]model.Customer
	sales     map[uuid.UUID]model.Sale
	items     map[uuid.UUID][]model.SaleLineItem
	events    []model.Event
}

func New() *Store {
	return &Store{
		data: &dataset{
			order:     map[uuid.UUID]int64{},
			products:  map[uuid.UUID]model.Product{},
			customers: map[uuid.UUID]model.Customer{},
			sales:     map[uuid.UUID]model.Sale{},
			items:     map[uuid.UUID][]model.SaleLineItem{},
		},
		faults: map[string]error{},
	}
}

// FailOn makes the named operation (e.g. "sales.CreateItems") return err
// until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) Products() repository.ProductRepository   { return &productRepo{s.view(false)} }
func (s *Store) Customers() repository.CustomerRepository { return &customerRepo{s.view(false)} }
func (s *Store) Sales() repository.SaleRepository         { return &saleRepo{s.view(false)} }
func (s *Store) Events() repository.EventRepository       { return &eventRepo{s.view(false)} }
func (s *Store) Reports() repository.ReportRepository     { return &reportRepo{s.view(false)} }

// Transaction serializes fn against every other access and restores the
// snapshot taken before fn when it fails or ctx is done before commit.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	err := fn(&txStore{v: s.view(true)})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

type txStore struct {
	v *view
}

func (t *txStore) Products() repository.ProductRepository   { return &productRepo{t.v} }
func (t *txStore) Customers() repository.CustomerRepository { return &customerRepo{t.v} }
func (t *txStore) Sales() repository.SaleRepository         { return &saleRepo{t.v} }
func (t *txStore) Events() repository.EventRepository       { return &eventRepo{t.v} }
func (t *txStore) Reports() repository.ReportRepository     { return &reportRepo{t.v} }

func (t *txStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return fn(t)
}

// view is the access path of a repository; inside a transaction the store
// mutex is already held.
type view struct {
	s    *Store
	inTx bool
}

func (s *Store) view(inTx bool) *view {
	return &view{s: s, inTx: inTx}
}

func (v *view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

func (v *view) fault(op string) error {
	return v.s.faults[op]
}

func (v *view) data() *dataset {
	return v.s.data
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		seq:       d.seq,
		order:     make(map[uuid.UUID]int64, len(d.order)),
		products:  make(map[uuid.UUID]model.Product, len(d.products)),
		customers: make(map[uuid.UUID]model.Customer, len(d.customers)),
		sales:     make(map[uuid.UUID]model.Sale, len(d.sales)),
		items:     make(map[uuid.UUID][]model.SaleLineItem, len(d.items)),
		events:    append([]model.Event(nil), d.events...),
	}
	for k, v := range d.order {
		c.order[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.sales {
		c.sales[k] = v
	}
	for k, v := range d.items {
		c.items[k] = append([]model.SaleLineItem(nil), v...)
	}
	return c
}

func (d *dataset) stamp(base *model.BaseModel) {
	base.EnsureID()
	now := time.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
	d.seq++
	d.order[base.ID] = d.seq
}

// newestFirst orders ids by insertion, most recent first.
func (d *dataset) newestFirst(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return d.order[ids[i]] > d.order[ids[j]] })
}

func cloneProduct(p model.Product) model.Product {
	if p.RawQuantity != nil {
		p.RawQuantity = model.IntPtr(*p.RawQuantity)
	}
	return p
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ---- products ----

type productRepo struct{ v *view }

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	defer r.v.lock()()
	if err := r.v.fault("products.Create"); err != nil {
		return err
	}
	d := r.v.data()
	d.stamp(&product.BaseModel)
	d.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *productRepo) CreateBatch(ctx context.Context, products []model.Product) error {
	defer r.v.lock()()
	if err := r.v.fault("products.CreateBatch"); err != nil {
		return err
	}
	d := r.v.data()
	for i := range products {
		d.stamp(&products[i].BaseModel)
		d.products[products[i].ID] = cloneProduct(products[i])
	}
	return nil
}

func (r *productRepo) FindAll(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	defer r.v.lock()()
	if err := r.v.fault("products.FindAll"); err != nil {
		return nil, err
	}
	d := r.v.data()

	ids := make([]uuid.UUID, 0, len(d.products))
	for id, p := range d.products {
		if filter.Search != "" && !contains(p.Name, filter.Search) && !contains(p.Color, filter.Search) && !contains(string(p.State), filter.Search) {
			continue
		}
		if len(filter.States) > 0 && !hasState(filter.States, p.State) {
			continue
		}
		if filter.InStockOnly && p.Stock <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	d.newestFirst(ids)
	if filter.OrderByName {
		sort.SliceStable(ids, func(i, j int) bool { return d.products[ids[i]].Name < d.products[ids[j]].Name })
	}

	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneProduct(d.products[id]))
	}
	return out, nil
}

func hasState(states []model.ProductState, s model.ProductState) bool {
	for _, v := range states {
		if v == s {
			return true
		}
	}
	return false
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	defer r.v.lock()()
	if err := r.v.fault("products.FindByID"); err != nil {
		return nil, err
	}
	p, ok := r.v.data().products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	defer r.v.lock()()
	if err := r.v.fault("products.Update"); err != nil {
		return err
	}
	d := r.v.data()
	if _, ok := d.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	product.UpdatedAt = time.Now()
	d.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.v.lock()()
	if err := r.v.fault("products.Delete"); err != nil {
		return err
	}
	d := r.v.data()
	if _, ok := d.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(d.products, id)
	return nil
}

func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int, updatedBy string) error {
	defer r.v.lock()()
	if err := r.v.fault("products.DecrementStock"); err != nil {
		return err
	}
	d := r.v.data()
	p, ok := d.products[id]
	if !ok || p.Stock < qty {
		return repository.ErrStockConflict
	}
	p.Stock -= qty
	p.UpdatedBy = updatedBy
	p.UpdatedAt = time.Now()
	d.products[id] = p
	return nil
}

// ---- customers ----

type customerRepo struct{ v *view }

// Customers are soft deleted like the GORM rows: hidden from lookups and from
// the DNI check, still attached to their sales.
func live(c model.Customer) bool { return !c.DeletedAt.Valid }

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	defer r.v.lock()()
	if err := r.v.fault("customers.Create"); err != nil {
		return err
	}
	d := r.v.data()
	for _, c := range d.customers {
		if live(c) && c.DNI == customer.DNI {
			return repository.ErrDuplicate
		}
	}
	d.stamp(&customer.BaseModel)
	d.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepo) FindAll(ctx context.Context, search string) ([]model.Customer, error) {
	defer r.v.lock()()
	if err := r.v.fault("customers.FindAll"); err != nil {
		return nil, err
	}
	d := r.v.data()
	search = strings.TrimSpace(search)

	ids := make([]uuid.UUID, 0, len(d.customers))
	for id, c := range d.customers {
		if !live(c) {
			continue
		}
		if search != "" && !contains(c.Name, search) && !strings.Contains(c.DNI, search) && !strings.Contains(c.Phone, search) {
			continue
		}
		ids = append(ids, id)
	}
	d.newestFirst(ids)

	out := make([]model.Customer, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.customers[id])
	}
	return out, nil
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	defer r.v.lock()()
	c, ok := r.v.data().customers[id]
	if !ok || !live(c) {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *customerRepo) find(match func(model.Customer) bool) (*model.Customer, error) {
	for _, c := range r.v.data().customers {
		if live(c) && match(c) {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *customerRepo) FindByDNI(ctx context.Context, dni string) (*model.Customer, error) {
	defer r.v.lock()()
	return r.find(func(c model.Customer) bool { return c.DNI == dni })
}

func (r *customerRepo) FindByNameAndDNI(ctx context.Context, name, dni string) (*model.Customer, error) {
	defer r.v.lock()()
	return r.find(func(c model.Customer) bool { return c.Name == name && c.DNI == dni })
}

func (r *customerRepo) Update(ctx context.Context, customer *model.Customer) error {
	defer r.v.lock()()
	if err := r.v.fault("customers.Update"); err != nil {
		return err
	}
	d := r.v.data()
	if c, ok := d.customers[customer.ID]; !ok || !live(c) {
		return repository.ErrNotFound
	}
	for id, c := range d.customers {
		if id != customer.ID && live(c) && c.DNI == customer.DNI {
			return repository.ErrDuplicate
		}
	}
	customer.UpdatedAt = time.Now()
	d.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.v.lock()()
	d := r.v.data()
	c, ok := d.customers[id]
	if !ok || !live(c) {
		return repository.ErrNotFound
	}
	c.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	d.customers[id] = c
	return nil
}

// ---- sales ----

type saleRepo struct{ v *view }

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	defer r.v.lock()()
	if err := r.v.fault("sales.Create"); err != nil {
		return err
	}
	d := r.v.data()
	for _, s := range d.sales {
		if s.TransactionCode == sale.TransactionCode {
			return repository.ErrDuplicate
		}
	}
	d.stamp(&sale.BaseModel)
	header := *sale
	header.Customer = nil
	header.Items = nil
	d.sales[sale.ID] = header
	return nil
}

func (r *saleRepo) CreateItems(ctx context.Context, items []model.SaleLineItem) error {
	defer r.v.lock()()
	if err := r.v.fault("sales.CreateItems"); err != nil {
		return err
	}
	d := r.v.data()
	for i := range items {
		if _, ok := d.sales[items[i].SaleID]; !ok {
			return repository.ErrNotFound
		}
		d.stamp(&items[i].BaseModel)
		it := items[i]
		it.Product = nil
		d.items[it.SaleID] = append(d.items[it.SaleID], it)
	}
	return nil
}

// detail rebuilds the preloaded shape the GORM repository returns.
func (r *saleRepo) detail(s model.Sale) model.Sale {
	d := r.v.data()
	if c, ok := d.customers[s.CustomerID]; ok {
		c := c
		s.Customer = &c
	}
	for _, it := range d.items[s.ID] {
		if p, ok := d.products[it.ProductID]; ok {
			p := cloneProduct(p)
			it.Product = &p
		}
		s.Items = append(s.Items, it)
	}
	return s
}

func (r *saleRepo) FindAll(ctx context.Context, filter repository.SaleFilter) ([]model.Sale, error) {
	defer r.v.lock()()
	d := r.v.data()
	search := strings.TrimSpace(filter.Search)

	var out []model.Sale
	for _, s := range d.sales {
		if filter.From != nil && s.SoldAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.SoldAt.After(*filter.To) {
			continue
		}
		full := r.detail(s)
		if search != "" {
			matched := contains(full.Seller, search)
			if full.Customer != nil {
				matched = matched || contains(full.Customer.Name, search) || strings.Contains(full.Customer.DNI, search)
			}
			if !matched {
				continue
			}
		}
		out = append(out, full)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SoldAt.Equal(out[j].SoldAt) {
			return d.order[out[i].ID] > d.order[out[j].ID]
		}
		return out[i].SoldAt.After(out[j].SoldAt)
	})
	return out, nil
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	defer r.v.lock()()
	s, ok := r.v.data().sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	full := r.detail(s)
	return &full, nil
}

// ---- events ----

type eventRepo struct{ v *view }

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	defer r.v.lock()()
	if err := r.v.fault("events.Create"); err != nil {
		return err
	}
	d := r.v.data()
	d.stamp(&event.BaseModel)
	d.events = append(d.events, *event)
	return nil
}

func (r *eventRepo) FindRecent(ctx context.Context, limit int) ([]model.Event, error) {
	defer r.v.lock()()
	d := r.v.data()
	out := make([]model.Event, 0, limit)
	for i := len(d.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, d.events[i])
	}
	return out, nil
}

// ---- reports ----

type reportRepo struct{ v *view }

func (r *reportRepo) SalesTotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	defer r.v.lock()()
	total := decimal.Zero
	for _, s := range r.v.data().sales {
		if !s.SoldAt.Before(since) {
			total = total.Add(s.Total)
		}
	}
	return total, nil
}

func (r *reportRepo) DailySales(ctx context.Context, from, to time.Time) ([]repository.DailySales, error) {
	defer r.v.lock()()
	byDay := map[string]*repository.DailySales{}
	for _, s := range r.v.data().sales {
		if s.SoldAt.Before(from) || s.SoldAt.After(to) {
			continue
		}
		key := s.SoldAt.Format("2006-01-02")
		row, ok := byDay[key]
		if !ok {
			row = &repository.DailySales{Date: key, Total: decimal.Zero}
			byDay[key] = row
		}
		row.Total = row.Total.Add(s.Total)
		row.Count++
	}

	out := make([]repository.DailySales, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *reportRepo) TopProducts(ctx context.Context, limit int) ([]repository.ProductSales, error) {
	defer r.v.lock()()
	d := r.v.data()
	qty := map[string]int{}
	for _, items := range d.items {
		for _, it := range items {
			if p, ok := d.products[it.ProductID]; ok {
				qty[p.Name] += it.Quantity
			}
		}
	}

	out := make([]repository.ProductSales, 0, len(qty))
	for name, q := range qty {
		out = append(out, repository.ProductSales{Name: name, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity == out[j].Quantity {
			return out[i].Name < out[j].Name
		}
		return out[i].Quantity > out[j].Quantity
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *reportRepo) StockByState(ctx context.Context) ([]repository.StateStock, error) {
	defer r.v.lock()()
	stock := map[model.ProductState]int{}
	for _, p := range r.v.data().products {
		stock[p.State] += p.Stock
	}

	out := make([]repository.StateStock, 0, len(stock))
	for state, n := range stock {
		out = append(out, repository.StateStock{State: state, Stock: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out, nil
}
