package service

import (
	"context"
	"fmt"
	"time"

	"hilanderia-pos/internal/export"
	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository"
	"hilanderia-pos/pkg/apperr"
	"hilanderia-pos/pkg/currency"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

type CheckoutInput struct {
	CustomerID uuid.UUID  `json:"customer_id" validate:"uuid_required"`
	Lines      []CartLine `json:"items" validate:"min=1"`
	Seller     string     `json:"-"`
}

var (
	checkoutErrors = map[string]*apperr.Error{
		"uuid_required": apperr.ErrNoCustomerSelected,
		"min":           apperr.ErrEmptyCart,
	}
	cartLineErrors = map[string]*apperr.Error{
		"uuid_required": apperr.Invalid("product_id is required"),
		"gte":           apperr.ErrInvalidQuantity,
	}
)

type QuoteLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Available int             `json:"available"`
}

type Quote struct {
	Lines        []QuoteLine     `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	TotalInWords string          `json:"total_in_words"`
}

type SaleQuery struct {
	From   *time.Time
	To     *time.Time
	Search string
}

type SaleService interface {
	Quote(ctx context.Context, lines []CartLine) (*Quote, error)
	Checkout(ctx context.Context, in CheckoutInput) (*model.Sale, error)
	ListSales(ctx context.Context, q SaleQuery) ([]model.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	Receipt(ctx context.Context, id uuid.UUID) ([]byte, *model.Sale, error)
}

type saleService struct {
	store    repository.Store
	notifier Notifier
	company  export.Company
	log      *zap.Logger
	now      func() time.Time
}

func NewSaleService(store repository.Store, notifier Notifier, company export.Company, log *zap.Logger) SaleService {
	return &saleService{
		store:    store,
		notifier: notifierOrNop(notifier),
		company:  company,
		log:      log.Named("sales"),
		now:      time.Now,
	}
}

// buildCart loads every line's product with find and adds it to a cart.
// Over-stock lines fail with stockErr so callers pick OutOfStock or
// InsufficientStock.
func buildCart(ctx context.Context, lines []CartLine, find func(context.Context, uuid.UUID) (*model.Product, error), stockErr *apperr.Error) (*Cart, error) {
	cart := &Cart{}
	for _, line := range lines {
		if err := validateAs(&line, cartLineErrors); err != nil {
			return nil, err
		}
		product, err := find(ctx, line.ProductID)
		if err != nil {
			return nil, translate(err, line.ProductID.String())
		}
		if !product.State.Processed() {
			return nil, apperr.ErrWrongState.With(product.ID.String())
		}
		if err := cart.Add(*product, line.Quantity); err != nil {
			return nil, stockErr.With(product.ID.String())
		}
	}
	return cart, nil
}

// Quote prices the lines against current stock without writing anything.
func (s *saleService) Quote(ctx context.Context, lines []CartLine) (*Quote, error) {
	if len(lines) == 0 {
		return nil, apperr.ErrEmptyCart
	}
	cart, err := buildCart(ctx, lines, s.store.Products().FindByID, apperr.ErrOutOfStock)
	if err != nil {
		return nil, err
	}

	total := cart.Total()
	words, err := currency.ToWords(total)
	if err != nil {
		return nil, err
	}
	q := &Quote{Total: total, TotalInWords: words}
	for _, it := range cart.Items() {
		q.Lines = append(q.Lines, QuoteLine{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Color:     it.Product.Color,
			Quantity:  it.Quantity,
			UnitPrice: it.Product.UnitPrice,
			Subtotal:  LineSubtotal(it),
			Available: it.Product.Stock,
		})
	}
	return q, nil
}

// Checkout persists the sale. Customer and non-empty cart are checked before
// any read; inside one transaction every product row is locked and re-read,
// the cart is rebuilt against the fresh stock, and then the sale, its lines,
// the stock decrements and the event are written.
func (s *saleService) Checkout(ctx context.Context, in CheckoutInput) (*model.Sale, error) {
	if err := validateAs(&in, checkoutErrors); err != nil {
		return nil, err
	}

	seller := actorOrSystem(in.Seller)
	var sale *model.Sale
	var items []CartItem

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		customer, err := tx.Customers().FindByID(ctx, in.CustomerID)
		if err != nil {
			return translate(err, in.CustomerID.String())
		}

		cart, err := buildCart(ctx, in.Lines, tx.Products().FindByIDForUpdate, apperr.ErrInsufficientStock)
		if err != nil {
			return err
		}
		items = cart.Items()

		sale = &model.Sale{
			CustomerID:      customer.ID,
			SoldAt:          s.now(),
			Total:           cart.Total(),
			Seller:          seller,
			TransactionCode: uuid.NewString(),
		}
		sale.CreatedBy = seller
		sale.UpdatedBy = seller
		if err := tx.Sales().Create(ctx, sale); err != nil {
			return translate(err, "sale")
		}

		lines := make([]model.SaleLineItem, 0, len(items))
		for _, it := range items {
			line := model.SaleLineItem{
				SaleID:    sale.ID,
				ProductID: it.Product.ID,
				Quantity:  it.Quantity,
				UnitPrice: it.Product.UnitPrice,
				Subtotal:  LineSubtotal(it),
			}
			line.CreatedBy = seller
			lines = append(lines, line)
		}
		if err := tx.Sales().CreateItems(ctx, lines); err != nil {
			return translate(err, "sale items")
		}

		for _, it := range items {
			if err := tx.Products().DecrementStock(ctx, it.Product.ID, it.Quantity, seller); err != nil {
				return translate(err, it.Product.ID.String())
			}
		}

		if err := tx.Events().Create(ctx, &model.Event{
			Type:        model.EventSale,
			Description: fmt.Sprintf("Nueva venta realizada por un total de %s", currency.Format(sale.Total)),
			OccurredAt:  sale.SoldAt,
			Actor:       seller,
		}); err != nil {
			return translate(err, "event")
		}

		sale.Customer = customer
		for i := range lines {
			p := items[i].Product
			p.Stock -= items[i].Quantity
			lines[i].Product = &p
		}
		sale.Items = lines
		return nil
	})
	if err != nil {
		s.log.Warn("checkout failed",
			zap.String("customer_id", in.CustomerID.String()),
			zap.Int("lines", len(in.Lines)),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("sale completed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.String("seller", seller),
	)
	for _, line := range sale.Items {
		s.notifier.Publish(msgStockUpdate, "sale_created", map[string]interface{}{
			"sale_id":    sale.ID,
			"product_id": line.ProductID,
			"name":       line.Product.Name,
			"quantity":   line.Quantity,
			"new_stock":  line.Product.Stock,
		}, fmt.Sprintf("%s sold %d units of '%s'", seller, line.Quantity, line.Product.Name))
	}
	return sale, nil
}

// ListSales filters by sale date; To covers the whole day it falls on.
func (s *saleService) ListSales(ctx context.Context, q SaleQuery) ([]model.Sale, error) {
	filter := repository.SaleFilter{Search: q.Search}
	if q.From != nil {
		from := startOfDay(*q.From)
		filter.From = &from
	}
	if q.To != nil {
		to := endOfDay(*q.To)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperr.Invalid("from date is after to date")
	}
	sales, err := s.store.Sales().FindAll(ctx, filter)
	if err != nil {
		return nil, translate(err, "sales")
	}
	return sales, nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.store.Sales().FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, id.String())
	}
	return sale, nil
}

// Receipt renders the boleta of a stored sale.
func (s *saleService) Receipt(ctx context.Context, id uuid.UUID) ([]byte, *model.Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data := export.ReceiptData{
		Company:         s.company,
		SoldAt:          sale.SoldAt,
		Seller:          sale.Seller,
		Total:           sale.Total,
		TransactionCode: sale.TransactionCode,
	}
	if sale.Customer != nil {
		data.Customer = sale.Customer.Name
		data.DNI = sale.Customer.DNI
	}
	for _, it := range sale.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
			if it.Product.Color != "" {
				name += " " + it.Product.Color
			}
		}
		data.Lines = append(data.Lines, export.ReceiptLine{
			Product:   name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}

	pdf, err := export.Receipt(data)
	if err != nil {
		s.log.Error("receipt rendering failed", zap.String("sale_id", id.String()), zap.Error(err))
		return nil, nil, err
	}
	return pdf, sale, nil
}
