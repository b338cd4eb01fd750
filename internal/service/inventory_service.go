package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository"
	"hilanderia-pos/pkg/apperr"
	"hilanderia-pos/pkg/currency"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DerivedFields are the values computed from a raw quantity going into spinning.
type DerivedFields struct {
	Stock     int             `json:"stock"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ComputeDerivedFields halves the raw quantity into salable units (rounding
// down) and defaults the unit price to the base price.
func ComputeDerivedFields(rawQuantity int, basePrice decimal.Decimal, unitPrice *decimal.Decimal) (DerivedFields, error) {
	if rawQuantity < 0 {
		return DerivedFields{}, apperr.ErrInvalidQuantity.With(strconv.Itoa(rawQuantity))
	}
	price := basePrice
	if unitPrice != nil {
		price = *unitPrice
	}
	return DerivedFields{Stock: rawQuantity / 2, UnitPrice: price}, nil
}

type OutcomeKind string

const (
	FullyConverted     OutcomeKind = "FullyConverted"
	PartiallyConverted OutcomeKind = "PartiallyConverted"
)

// ProcessingOutcome describes a finished batch. On a partial conversion
// Product is the new cone record and Source the decremented raw batch;
// Continue reports that raw quantity is left for more batches.
type ProcessingOutcome struct {
	Kind      OutcomeKind    `json:"kind"`
	Product   *model.Product `json:"product"`
	Source    *model.Product `json:"source,omitempty"`
	Remaining int            `json:"remaining"`
	Continue  bool           `json:"continue"`
}

type ProcessBatchInput struct {
	SourceID    uuid.UUID          `json:"source_id" validate:"uuid_required"`
	Quantity    int                `json:"quantity" validate:"gte=1"`
	TargetState model.ProductState `json:"target_state" validate:"processed_state"`
	BasePrice   decimal.Decimal    `json:"base_price" validate:"money_gt0"`
	UnitPrice   *decimal.Decimal   `json:"unit_price,omitempty" validate:"omitempty,money_gt0"`
	Stock       *int               `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

var processBatchErrors = map[string]*apperr.Error{
	"uuid_required":   apperr.Invalid("source product is required"),
	"gte":             apperr.ErrInvalidQuantity,
	"processed_state": apperr.Invalid("target state must be a cone state"),
	"money_gt0":       apperr.ErrInvalidPrice,
}

// IntakeInput is a dye-house delivery waiting to be spun.
type IntakeInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Color       string `json:"color" validate:"required,max=100"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity" validate:"gte=1"`
}

type ProductInput struct {
	Name        string             `json:"name" validate:"required,max=255"`
	Color       string             `json:"color" validate:"max=100"`
	Description string             `json:"description"`
	State       model.ProductState `json:"state" validate:"product_state"`
	BasePrice   decimal.Decimal    `json:"base_price" validate:"money_gte0"`
	UnitPrice   decimal.Decimal    `json:"unit_price" validate:"money_gte0"`
	Stock       int                `json:"stock" validate:"gte=0"`
	RawQuantity *int               `json:"raw_quantity,omitempty" validate:"omitempty,gte=1"`
}

type ProductQuery struct {
	Search      string
	State       model.ProductState
	InStockOnly bool
}

type ColorStock struct {
	Color string `json:"color"`
	Stock int    `json:"stock"`
}

type InventorySummary struct {
	TotalProducts int                     `json:"total_products"`
	TotalStock    int                     `json:"total_stock"`
	Valuation     decimal.Decimal         `json:"valuation"`
	OutOfStock    int                     `json:"out_of_stock"`
	RawBatches    int                     `json:"raw_batches"`
	RawQuantity   int                     `json:"raw_quantity"`
	StockByState  []repository.StateStock `json:"stock_by_state"`
	TopColors     []ColorStock            `json:"top_colors"`
}

type InventoryService interface {
	RegisterIntake(ctx context.Context, in IntakeInput, actor string) (*model.Product, error)
	CreateProduct(ctx context.Context, in ProductInput, actor string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput, actor string) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor string) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, q ProductQuery) ([]model.Product, error)
	ListSellable(ctx context.Context) ([]model.Product, error)
	ListRawMaterial(ctx context.Context) ([]model.Product, error)
	ProcessBatch(ctx context.Context, in ProcessBatchInput, actor string) (*ProcessingOutcome, error)
	ImportProducts(ctx context.Context, rows []map[string]string, actor string) ([]model.Product, error)
	Summary(ctx context.Context) (*InventorySummary, error)
}

type inventoryService struct {
	store    repository.Store
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewInventoryService(store repository.Store, notifier Notifier, log *zap.Logger) InventoryService {
	return &inventoryService{
		store:    store,
		notifier: notifierOrNop(notifier),
		log:      log.Named("inventory"),
		now:      time.Now,
	}
}

func (s *inventoryService) RegisterIntake(ctx context.Context, in IntakeInput, actor string) (*model.Product, error) {
	if in.Quantity < 1 {
		return nil, apperr.ErrInvalidQuantity.With(strconv.Itoa(in.Quantity))
	}
	if err := validate(&in); err != nil {
		return nil, err
	}

	actor = actorOrSystem(actor)
	product := &model.Product{
		Name:        strings.TrimSpace(in.Name),
		Color:       strings.TrimSpace(in.Color),
		Description: in.Description,
		State:       model.StateRawMaterial,
		BasePrice:   decimal.Zero,
		UnitPrice:   decimal.Zero,
		Stock:       0,
		RawQuantity: model.IntPtr(in.Quantity),
		IngestedAt:  s.now(),
	}
	product.CreatedBy = actor
	product.UpdatedBy = actor

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Products().Create(ctx, product); err != nil {
			return translate(err, "product")
		}
		return s.recordEvent(ctx, tx, actor,
			fmt.Sprintf("Ingreso de tintorería: %d unidades de %s %s", in.Quantity, product.Name, product.Color))
	})
	if err != nil {
		s.log.Error("intake failed", zap.String("name", product.Name), zap.Error(err))
		return nil, err
	}

	s.log.Info("intake registered", zap.String("product_id", product.ID.String()), zap.Int("quantity", in.Quantity), zap.String("actor", actor))
	s.publish("intake_registered", product, fmt.Sprintf("%s registró %d unidades de '%s' por hilandar", actor, in.Quantity, product.Name))
	return product, nil
}

// normalize applies the lifecycle rules to a product built from direct input.
func normalize(p *model.Product) error {
	if !p.State.Valid() {
		return apperr.Invalid("unknown state %q", p.State)
	}
	if p.State == model.StateRawMaterial {
		if p.Quantity() < 1 {
			return apperr.ErrInvalidQuantity.With("raw_quantity")
		}
		p.BasePrice = decimal.Zero
		p.UnitPrice = decimal.Zero
		p.Stock = 0
		return nil
	}
	if !p.BasePrice.IsPositive() {
		return apperr.ErrInvalidPrice.With("base_price")
	}
	if p.UnitPrice.IsZero() {
		p.UnitPrice = p.BasePrice
	}
	if p.Stock < 0 {
		return apperr.ErrInvalidQuantity.With("stock")
	}
	return nil
}

func (s *inventoryService) CreateProduct(ctx context.Context, in ProductInput, actor string) (*model.Product, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}

	actor = actorOrSystem(actor)
	product := &model.Product{
		Name:        strings.TrimSpace(in.Name),
		Color:       strings.TrimSpace(in.Color),
		Description: in.Description,
		State:       in.State,
		BasePrice:   in.BasePrice,
		UnitPrice:   in.UnitPrice,
		Stock:       in.Stock,
		RawQuantity: in.RawQuantity,
		IngestedAt:  s.now(),
	}
	if product.State.Processed() {
		product.RawQuantity = nil
	}
	if err := normalize(product); err != nil {
		return nil, err
	}
	product.CreatedBy = actor
	product.UpdatedBy = actor

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Products().Create(ctx, product); err != nil {
			return translate(err, "product")
		}
		return s.recordEvent(ctx, tx, actor, fmt.Sprintf("Nuevo producto registrado: %s (%s)", product.Name, product.State))
	})
	if err != nil {
		s.log.Error("create product failed", zap.String("name", product.Name), zap.Error(err))
		return nil, err
	}

	s.log.Info("product created", zap.String("product_id", product.ID.String()), zap.String("actor", actor))
	s.publish("product_created", product, fmt.Sprintf("%s created product '%s'", actor, product.Name))
	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput, actor string) (*model.Product, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}

	actor = actorOrSystem(actor)
	var updated *model.Product
	var oldStock int

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			return translate(err, id.String())
		}
		oldStock = existing.Stock
		wasRaw := existing.State == model.StateRawMaterial

		existing.Name = strings.TrimSpace(in.Name)
		existing.Color = strings.TrimSpace(in.Color)
		existing.Description = in.Description
		existing.State = in.State
		existing.BasePrice = in.BasePrice
		existing.UnitPrice = in.UnitPrice
		existing.Stock = in.Stock
		switch {
		case !in.State.Processed():
			if in.RawQuantity != nil {
				existing.RawQuantity = in.RawQuantity
			}
		case wasRaw:
			// raw quantity has no meaning once the batch leaves RawMaterial
			existing.RawQuantity = nil
		}
		if err := normalize(existing); err != nil {
			return err
		}
		existing.UpdatedBy = actor

		if err := tx.Products().Update(ctx, existing); err != nil {
			return translate(err, id.String())
		}
		updated = existing
		return s.recordEvent(ctx, tx, actor, fmt.Sprintf("Producto actualizado: %s (%s)", existing.Name, existing.State))
	})
	if err != nil {
		s.log.Warn("update product failed", zap.String("product_id", id.String()), zap.Error(err))
		return nil, err
	}

	s.log.Info("product updated", zap.String("product_id", id.String()), zap.Int("old_stock", oldStock), zap.Int("new_stock", updated.Stock))
	s.publish("product_updated", updated, fmt.Sprintf("%s updated product '%s'", actor, updated.Name))
	return updated, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, actor string) error {
	actor = actorOrSystem(actor)
	var deleted *model.Product

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.Products().FindByID(ctx, id)
		if err != nil {
			return translate(err, id.String())
		}
		if err := tx.Products().Delete(ctx, id); err != nil {
			return translate(err, id.String())
		}
		deleted = p
		return s.recordEvent(ctx, tx, actor, fmt.Sprintf("Producto eliminado: %s", p.Name))
	})
	if err != nil {
		return err
	}

	s.log.Info("product deleted", zap.String("product_id", id.String()), zap.String("actor", actor))
	s.publish("product_deleted", deleted, fmt.Sprintf("%s deleted product '%s'", actor, deleted.Name))
	return nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, id.String())
	}
	return p, nil
}

func (s *inventoryService) ListProducts(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	filter := repository.ProductFilter{Search: strings.TrimSpace(q.Search), InStockOnly: q.InStockOnly}
	if q.State != "" {
		if !q.State.Valid() {
			return nil, apperr.Invalid("unknown state %q", q.State)
		}
		filter.States = []model.ProductState{q.State}
	}
	products, err := s.store.Products().FindAll(ctx, filter)
	if err != nil {
		return nil, translate(err, "products")
	}
	return products, nil
}

// ListSellable returns finished goods with stock, ordered by name.
func (s *inventoryService) ListSellable(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.Products().FindAll(ctx, repository.ProductFilter{
		States:      []model.ProductState{model.StateWoundCones, model.StateVariegatedCones},
		InStockOnly: true,
		OrderByName: true,
	})
	if err != nil {
		return nil, translate(err, "products")
	}
	return products, nil
}

func (s *inventoryService) ListRawMaterial(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.Products().FindAll(ctx, repository.ProductFilter{
		States: []model.ProductState{model.StateRawMaterial},
	})
	if err != nil {
		return nil, translate(err, "products")
	}
	return products, nil
}


// ProcessBatch converts requested raw quantity of a RawMaterial product into
// cones. Consuming the whole batch converts the record in place; a smaller
// quantity splits a new cone record off and decrements the source. All
// writes share one transaction with the source row locked.
func (s *inventoryService) ProcessBatch(ctx context.Context, in ProcessBatchInput, actor string) (*ProcessingOutcome, error) {
	if in.TargetState == model.StateRawMaterial {
		return nil, apperr.ErrWrongState.With(string(in.TargetState))
	}
	if err := validateAs(&in, processBatchErrors); err != nil {
		return nil, err
	}
	derived, err := ComputeDerivedFields(in.Quantity, in.BasePrice, in.UnitPrice)
	if err != nil {
		return nil, err
	}
	stock := derived.Stock
	if in.Stock != nil {
		stock = *in.Stock
	}

	actor = actorOrSystem(actor)
	var outcome *ProcessingOutcome

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		source, err := tx.Products().FindByIDForUpdate(ctx, in.SourceID)
		if err != nil {
			return translate(err, in.SourceID.String())
		}
		if !source.InProcess() {
			return apperr.ErrWrongState.With(source.ID.String())
		}
		available := source.Quantity()
		if in.Quantity > available {
			return apperr.ErrInvalidQuantity.With(fmt.Sprintf("%d > %d", in.Quantity, available))
		}

		if in.Quantity == available {
			source.Name = model.ConeLabel
			source.State = in.TargetState
			source.BasePrice = in.BasePrice
			source.UnitPrice = derived.UnitPrice
			source.Stock = stock
			source.RawQuantity = nil
			source.UpdatedBy = actor
			if err := tx.Products().Update(ctx, source); err != nil {
				return translate(err, source.ID.String())
			}
			outcome = &ProcessingOutcome{Kind: FullyConverted, Product: source}
		} else {
			cones := &model.Product{
				Name:        model.ConeLabel,
				Color:       source.Color,
				Description: source.Description,
				State:       in.TargetState,
				BasePrice:   in.BasePrice,
				UnitPrice:   derived.UnitPrice,
				Stock:       stock,
				RawQuantity: model.IntPtr(in.Quantity),
				IngestedAt:  s.now(),
			}
			cones.CreatedBy = actor
			cones.UpdatedBy = actor
			if err := tx.Products().Create(ctx, cones); err != nil {
				return translate(err, "product")
			}

			source.RawQuantity = model.IntPtr(available - in.Quantity)
			source.UpdatedBy = actor
			if err := tx.Products().Update(ctx, source); err != nil {
				return translate(err, source.ID.String())
			}
			outcome = &ProcessingOutcome{
				Kind:      PartiallyConverted,
				Product:   cones,
				Source:    source,
				Remaining: available - in.Quantity,
				Continue:  true,
			}
		}

		return s.recordEvent(ctx, tx, actor, fmt.Sprintf("Procesado: %d unidades de %s pasaron a %s (%d conos)",
			in.Quantity, source.Color, in.TargetState, stock))
	})
	if err != nil {
		s.log.Warn("process batch failed", zap.String("source_id", in.SourceID.String()), zap.Int("quantity", in.Quantity), zap.Error(err))
		return nil, err
	}

	s.log.Info("batch processed",
		zap.String("source_id", in.SourceID.String()),
		zap.String("outcome", string(outcome.Kind)),
		zap.Int("quantity", in.Quantity),
		zap.Int("stock", stock),
	)
	s.publish("batch_processed", outcome.Product, fmt.Sprintf("%s processed %d units into %s", actor, in.Quantity, in.TargetState))
	return outcome, nil
}

// ImportProducts creates every row of a template sheet or none of them.
// Rows in the raw state take their quantity from the stock column.
func (s *inventoryService) ImportProducts(ctx context.Context, rows []map[string]string, actor string) ([]model.Product, error) {
	if len(rows) == 0 {
		return nil, apperr.Invalid("no rows to import")
	}

	actor = actorOrSystem(actor)
	products := make([]model.Product, 0, len(rows))
	for i, row := range rows {
		p, err := productFromRow(row, i+2)
		if err != nil {
			return nil, err
		}
		p.IngestedAt = s.now()
		p.CreatedBy = actor
		p.UpdatedBy = actor
		products = append(products, *p)
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Products().CreateBatch(ctx, products); err != nil {
			return translate(err, "products")
		}
		return s.recordEvent(ctx, tx, actor, fmt.Sprintf("Carga masiva de %d productos", len(products)))
	})
	if err != nil {
		s.log.Error("product import failed", zap.Int("rows", len(rows)), zap.Error(err))
		return nil, err
	}

	s.log.Info("products imported", zap.Int("count", len(products)), zap.String("actor", actor))
	s.publish("products_imported", map[string]int{"count": len(products)}, fmt.Sprintf("%s imported %d products", actor, len(products)))
	return products, nil
}

func productFromRow(row map[string]string, n int) (*model.Product, error) {
	name := strings.TrimSpace(row["nombre"])
	if name == "" {
		return nil, rowError(n, "nombre is required")
	}
	state := model.ProductState(strings.TrimSpace(row["estado"]))
	if !state.Valid() {
		return nil, rowError(n, "unknown estado %q", state)
	}

	qty := 0
	if v := strings.TrimSpace(row["stock"]); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return nil, rowError(n, "stock %q is not a whole number", v)
		}
		qty = parsed
	}

	p := &model.Product{
		Name:        name,
		Color:       strings.TrimSpace(row["color"]),
		Description: strings.TrimSpace(row["descripcion"]),
		State:       state,
		Stock:       qty,
	}
	if state == model.StateRawMaterial {
		p.RawQuantity = model.IntPtr(qty)
	} else {
		base, err := parseMoney(row["precio_base"])
		if err != nil {
			return nil, rowError(n, "precio_base: %v", err)
		}
		unit, err := parseMoney(row["precio_uni"])
		if err != nil {
			return nil, rowError(n, "precio_uni: %v", err)
		}
		p.BasePrice, p.UnitPrice = base, unit
	}
	if err := normalize(p); err != nil {
		return nil, rowError(n, "%v", err)
	}
	return p, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return currency.Parse(s)
}

func (s *inventoryService) Summary(ctx context.Context) (*InventorySummary, error) {
	products, err := s.store.Products().FindAll(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, translate(err, "products")
	}

	sum := &InventorySummary{TotalProducts: len(products), Valuation: decimal.Zero}
	byState := map[model.ProductState]int{}
	byColor := map[string]int{}
	for i := range products {
		p := &products[i]
		sum.TotalStock += p.Stock
		sum.Valuation = sum.Valuation.Add(p.Valuation())
		byState[p.State] += p.Stock
		if p.InProcess() {
			sum.RawBatches++
			sum.RawQuantity += p.Quantity()
			continue
		}
		if p.Stock == 0 {
			sum.OutOfStock++
		}
		byColor[p.Color] += p.Stock
	}

	for _, st := range model.ProductStates {
		sum.StockByState = append(sum.StockByState, repository.StateStock{State: st, Stock: byState[st]})
	}
	for color, stock := range byColor {
		sum.TopColors = append(sum.TopColors, ColorStock{Color: color, Stock: stock})
	}
	sort.Slice(sum.TopColors, func(i, j int) bool {
		if sum.TopColors[i].Stock == sum.TopColors[j].Stock {
			return sum.TopColors[i].Color < sum.TopColors[j].Color
		}
		return sum.TopColors[i].Stock > sum.TopColors[j].Stock
	})
	if len(sum.TopColors) > 5 {
		sum.TopColors = sum.TopColors[:5]
	}
	return sum, nil
}

func (s *inventoryService) recordEvent(ctx context.Context, tx repository.Store, actor, description string) error {
	err := tx.Events().Create(ctx, &model.Event{
		Type:        model.EventInventory,
		Description: description,
		OccurredAt:  s.now(),
		Actor:       actor,
	})
	return translate(err, "event")
}

func (s *inventoryService) publish(action string, data interface{}, text string) {
	s.notifier.Publish(msgStockUpdate, action, data, text)
}
