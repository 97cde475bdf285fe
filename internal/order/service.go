package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"threadstory-be/internal/logger"
	"threadstory-be/internal/metrics"
	"threadstory-be/internal/payment"
	"threadstory-be/internal/product"
	"threadstory-be/internal/utils"

	"go.uber.org/zap"
)

// ProductStore is the slice of the catalog store that order placement needs.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
	SetStock(ctx context.Context, id string, stock int) error
}

// Notifier receives order events. Publish must not block.
type Notifier interface {
	Publish(eventType string, payload any)
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	CreateGatewayOrder(ctx context.Context, input GatewayOrderInput) (*payment.GatewayOrder, error)
	ConfirmPayment(ctx context.Context, id string, input PayInput) (*Order, error)
	ListMine(ctx context.Context) ([]*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	MarkDelivered(ctx context.Context, id string) (*Order, error)
	SetStatus(ctx context.Context, id string, status string) (*Order, error)
}

type service struct {
	repo        Repository
	products    ProductStore
	paymentGate payment.Gateway
	notifier    Notifier
	now         func() time.Time
}

func NewService(repo Repository, products ProductStore, payGate payment.Gateway, notifier Notifier) Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &service{
		repo:        repo,
		products:    products,
		paymentGate: payGate,
		notifier:    notifier,
		now:         time.Now,
	}
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, any) {}

// Create decrements stock line by line and then stores the order. A line
// whose product reference is missing, malformed or unknown is treated as a
// sample product and skips stock handling. When a line runs out of stock the
// decrements already written for earlier lines are kept.
func (s *service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
	)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	if len(input.OrderItems) == 0 {
		return nil, ErrNoOrderItems
	}
	for i, item := range input.OrderItems {
		if item.Quantity < 1 {
			return nil, invalidQuantity(i)
		}
	}

	start := time.Now()

	for _, item := range input.OrderItems {
		ref := string(item.Product)
		if ref == "" {
			continue
		}

		p, err := s.products.GetByID(ctx, ref)
		if errors.Is(err, product.ErrInvalidID) || errors.Is(err, product.ErrProductNotFound) {
			log.Debug("skipping stock check for sample product",
				zap.String("product", ref),
				zap.String("name", item.Name),
			)
			continue
		}
		if err != nil {
			log.Error("failed to load product for order", zap.String("product", ref), zap.Error(err))
			return nil, err
		}

		if p.Stock < item.Quantity {
			log.Info("order rejected: insufficient stock",
				zap.String("product_id", p.ID),
				zap.Int("stock", p.Stock),
				zap.Int("requested", item.Quantity),
			)
			return nil, insufficientStock(p.Name, p.Stock)
		}

		if err := s.products.SetStock(ctx, p.ID, p.Stock-item.Quantity); err != nil {
			log.Error("failed to reduce stock", zap.String("product_id", p.ID), zap.Error(err))
			return nil, err
		}
	}

	o := &Order{
		User: Owner{
			ID:    userID,
			Name:  utils.GetUserNameFromContext(ctx),
			Email: utils.GetUserEmailFromContext(ctx),
		},
		Items:           input.OrderItems,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		TaxPrice:        input.TaxPrice,
		ShippingPrice:   input.ShippingPrice,
		TotalPrice:      input.TotalPrice,
		Status:          StatusPending,
	}

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		log.Error("failed to store order", zap.Error(err))
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	s.notifier.Publish(EventCreated, created)

	log.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("user_id", userID),
		zap.Int("items", len(created.Items)),
		zap.Float64("total", created.TotalPrice),
		zap.Duration("duration", time.Since(start)),
	)

	return created, nil
}

func (s *service) CreateGatewayOrder(ctx context.Context, input GatewayOrderInput) (*payment.GatewayOrder, error) {
	if !s.paymentGate.Enabled() {
		return nil, payment.ErrNotConfigured
	}

	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = payment.DefaultCurrency
	}

	return s.paymentGate.CreateOrder(ctx, payment.OrderRequest{
		Amount:   payment.ToMinorUnits(input.Amount),
		Currency: currency,
		Receipt:  payment.NewReceipt(s.now()),
	})
}

// ConfirmPayment marks an order paid. Gateway signatures are verified
// before anything is written, so a rejected confirmation leaves the order
// untouched.
func (s *service) ConfirmPayment(ctx context.Context, id string, input PayInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmPayment"),
		zap.String("order_id", id),
	)

	if _, ok := utils.GetUserIDFromContext(ctx); !ok {
		return nil, ErrUnauthenticated
	}

	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	viaGateway := input.RazorpayPaymentID != ""
	if viaGateway {
		if !s.paymentGate.Enabled() {
			return nil, payment.ErrNotConfigured
		}
		err := s.paymentGate.VerifySignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature)
		if err != nil {
			metrics.PaymentsRejected.Inc()
			log.Warn("payment signature rejected",
				zap.String("gateway_order_id", input.RazorpayOrderID),
				zap.String("gateway_payment_id", input.RazorpayPaymentID),
			)
			return nil, err
		}
	}

	payerEmail := ""
	if input.Payer != nil {
		payerEmail = input.Payer.EmailAddress
	}

	now := s.now().UTC()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &PaymentResult{
		ID:           input.ID,
		Status:       input.Status,
		UpdateTime:   input.UpdateTime,
		EmailAddress: utils.FirstNonEmpty(payerEmail, utils.GetUserEmailFromContext(ctx)),
	}
	if viaGateway {
		o.PaymentResult.RazorpayPaymentID = input.RazorpayPaymentID
		o.PaymentResult.RazorpayOrderID = input.RazorpayOrderID
		o.PaymentResult.RazorpaySignature = input.RazorpaySignature
	}

	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		log.Error("failed to store payment", zap.Error(err))
		return nil, err
	}

	metrics.PaymentsVerified.Inc()
	s.notifier.Publish(EventPaid, updated)

	log.Info("order paid", zap.Bool("gateway", viaGateway))
	return updated, nil
}

func (s *service) ListMine(ctx context.Context) ([]*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, userID)
}

// GetByID returns the order to its owner or an admin. Anyone else gets
// ErrOrderNotFound.
func (s *service) GetByID(ctx context.Context, id string) (*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.User.ID != userID && !utils.IsAdmin(ctx) {
		logger.FromCtx(ctx).Info("order access denied",
			zap.String("order_id", id),
			zap.String("user_id", userID),
		)
		return nil, ErrOrderNotFound
	}

	return o, nil
}

func (s *service) ListAll(ctx context.Context) ([]*Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) MarkDelivered(ctx context.Context, id string) (*Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	o.IsDelivered = true
	o.DeliveredAt = &now
	o.Status = StatusDelivered

	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventUpdated, updated)
	logger.FromCtx(ctx).Info("order delivered", zap.String("order_id", id))
	return updated, nil
}

func (s *service) SetStatus(ctx context.Context, id string, status string) (*Order, error) {
	st := Status(strings.TrimSpace(status))
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	o.Status = st
	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventUpdated, updated)
	logger.FromCtx(ctx).Info("order status changed",
		zap.String("order_id", id),
		zap.String("status", string(st)),
	)
	return updated, nil
}

// load fetches an order, folding a malformed id into ErrOrderNotFound.
func (s *service) load(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrInvalidID) {
		return nil, ErrOrderNotFound
	}
	return o, err
}
