package test

import (
	"context"
	"time"

	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash, address string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Address: address}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	PrepareFromCartFn    func(context.Context, int64) (*model.PreparedOrder, error)
	GetByIDFn            func(context.Context, int64) (*model.Order, error)
	RecipientAddressFn   func(context.Context, int64) (string, error)
	AssignItemsToBuyerFn func(context.Context, int64) ([]int64, error)

	Prepared    []int64
	Orders      []model.Order
	Address     string
	AssignedIDs []int64
	AssignCalls []int64
}

// PrepareFromCart tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) PrepareFromCart(ctx context.Context, userID int64) (*model.PreparedOrder, error) {
	s.Prepared = append(s.Prepared, userID)
	if s.PrepareFromCartFn != nil {
		return s.PrepareFromCartFn(ctx, userID)
	}
	return &model.PreparedOrder{
		Order:          model.Order{ID: 1, UserID: userID},
		AmountBaseUnit: 500,
		CartSessionID:  1,
	}, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, orderID)
	}
	for _, o := range s.Orders {
		if o.ID == orderID {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// RecipientAddress returns the configured wallet address.
func (s *OrderRepositoryStub) RecipientAddress(ctx context.Context, orderID int64) (string, error) {
	if s.RecipientAddressFn != nil {
		return s.RecipientAddressFn(ctx, orderID)
	}
	if s.Address == "" {
		return "", domainErrors.ErrNotFound
	}
	return s.Address, nil
}

// AssignItemsToBuyer records invocations and returns configured item ids.
func (s *OrderRepositoryStub) AssignItemsToBuyer(ctx context.Context, orderID int64) ([]int64, error) {
	s.AssignCalls = append(s.AssignCalls, orderID)
	if s.AssignItemsToBuyerFn != nil {
		return s.AssignItemsToBuyerFn(ctx, orderID)
	}
	return s.AssignedIDs, nil
}

// PaymentApplyCall stores information about ApplyStatus invocations.
type PaymentApplyCall struct {
	PaymentID string
	Status    model.PaymentStatus
}

// PaymentCancelCall stores information about CancelByOrderID invocations.
type PaymentCancelCall struct {
	OrderID int64
	Target  model.PaymentStatus
}

// PaymentRepositoryStub lets tests control payment persistence.
type PaymentRepositoryStub struct {
	RegisterFn        func(context.Context, model.PaymentProvider, string, int64, time.Time) (*model.Payment, error)
	ApplyStatusFn     func(context.Context, string, model.PaymentStatus) (*model.StatusTransition, error)
	CancelByOrderIDFn func(context.Context, int64, model.PaymentStatus) (*model.Payment, error)
	ListExpiredFn     func(context.Context, int) ([]model.Payment, error)
	ListPendingFn     func(context.Context, model.PaymentProvider, int) ([]model.Payment, error)

	Registered  []model.Payment
	ApplyCalls  []PaymentApplyCall
	CancelCalls []PaymentCancelCall
	Transition  *model.StatusTransition
	Payments    []model.Payment
	Expired     []model.Payment
	Pending     []model.Payment
}

// Register stores the payment and returns it.
func (s *PaymentRepositoryStub) Register(ctx context.Context, provider model.PaymentProvider, paymentID string, orderID int64, expiresAt time.Time) (*model.Payment, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, provider, paymentID, orderID, expiresAt)
	}
	payment := model.Payment{
		ID:        int64(len(s.Registered) + 1),
		PaymentID: paymentID,
		Status:    model.PaymentStatusCreated,
		OrderID:   orderID,
		Provider:  provider,
		ExpiresAt: expiresAt,
	}
	s.Registered = append(s.Registered, payment)
	return &payment, nil
}

// ApplyStatus records the call and returns the configured transition.
func (s *PaymentRepositoryStub) ApplyStatus(ctx context.Context, paymentID string, status model.PaymentStatus) (*model.StatusTransition, error) {
	s.ApplyCalls = append(s.ApplyCalls, PaymentApplyCall{PaymentID: paymentID, Status: status})
	if s.ApplyStatusFn != nil {
		return s.ApplyStatusFn(ctx, paymentID, status)
	}
	if s.Transition != nil {
		return s.Transition, nil
	}
	return &model.StatusTransition{OrderID: 1, Previous: model.PaymentStatusCreated, Applied: true}, nil
}

// CancelByOrderID records the call and returns the matched payment.
func (s *PaymentRepositoryStub) CancelByOrderID(ctx context.Context, orderID int64, target model.PaymentStatus) (*model.Payment, error) {
	s.CancelCalls = append(s.CancelCalls, PaymentCancelCall{OrderID: orderID, Target: target})
	if s.CancelByOrderIDFn != nil {
		return s.CancelByOrderIDFn(ctx, orderID, target)
	}
	for _, p := range s.Payments {
		if p.OrderID == orderID {
			payment := p
			payment.Status = target
			return &payment, nil
		}
	}
	return nil, domainErrors.ErrNotCancelable
}

// ListExpired returns configured overdue payments.
func (s *PaymentRepositoryStub) ListExpired(ctx context.Context, limit int) ([]model.Payment, error) {
	if s.ListExpiredFn != nil {
		return s.ListExpiredFn(ctx, limit)
	}
	return s.Expired, nil
}

// ListPending returns configured pending payments for the provider.
func (s *PaymentRepositoryStub) ListPending(ctx context.Context, provider model.PaymentProvider, limit int) ([]model.Payment, error) {
	if s.ListPendingFn != nil {
		return s.ListPendingFn(ctx, provider, limit)
	}
	var result []model.Payment
	for _, p := range s.Pending {
		if p.Provider == provider {
			result = append(result, p)
		}
	}
	return result, nil
}

// GetByPaymentID fetches payment by provider intent id.
func (s *PaymentRepositoryStub) GetByPaymentID(ctx context.Context, paymentID string) (*model.Payment, error) {
	for _, p := range s.Payments {
		if p.PaymentID == paymentID {
			payment := p
			return &payment, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByOrderID fetches payment by order id.
func (s *PaymentRepositoryStub) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	for _, p := range s.Payments {
		if p.OrderID == orderID {
			payment := p
			return &payment, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// CartRepositoryStub keeps cart sessions in memory for tests.
type CartRepositoryStub struct {
	ActiveSessionFn func(context.Context, int64) (int64, error)
	MetaFn          func(context.Context, int64) (*model.CartMeta, error)

	SessionID    int64
	ItemIDs      []int64
	AddedItems   []int64
	RemovedItems []int64
	Deleted      []int64
	Err          error
}

// ActiveSession returns configured session id.
func (s *CartRepositoryStub) ActiveSession(ctx context.Context, userID int64) (int64, error) {
	if s.ActiveSessionFn != nil {
		return s.ActiveSessionFn(ctx, userID)
	}
	if s.Err != nil {
		return 0, s.Err
	}
	if s.SessionID == 0 {
		return 0, domainErrors.ErrNoActiveCart
	}
	return s.SessionID, nil
}

// Meta returns session contents configured on the stub.
func (s *CartRepositoryStub) Meta(ctx context.Context, sessionID int64) (*model.CartMeta, error) {
	if s.MetaFn != nil {
		return s.MetaFn(ctx, sessionID)
	}
	return &model.CartMeta{ID: sessionID, ItemIDs: s.ItemIDs}, nil
}

// AddItem records added item identifiers.
func (s *CartRepositoryStub) AddItem(ctx context.Context, sessionID, itemID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.AddedItems = append(s.AddedItems, itemID)
	return nil
}

// RemoveItem records removed item identifiers.
func (s *CartRepositoryStub) RemoveItem(ctx context.Context, sessionID, itemID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.RemovedItems = append(s.RemovedItems, itemID)
	return nil
}

// DeleteByOrderID records consumed sessions.
func (s *CartRepositoryStub) DeleteByOrderID(ctx context.Context, orderID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.Deleted = append(s.Deleted, orderID)
	return nil
}

// ItemRepositoryStub serves catalog lookups from a fixed slice.
type ItemRepositoryStub struct {
	FindByIDsFn func(context.Context, []int64) ([]model.Item, error)
	Items       []model.Item
}

// FindByIDs returns items whose ids are requested.
func (s *ItemRepositoryStub) FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error) {
	if s.FindByIDsFn != nil {
		return s.FindByIDsFn(ctx, ids)
	}
	var result []model.Item
	for _, id := range ids {
		for _, item := range s.Items {
			if item.ID == id {
				result = append(result, item)
			}
		}
	}
	return result, nil
}
