package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	"app/internal/notify"
	"app/internal/payment"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

type TxReposMock struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	carts         repo.CartRepository
	cartItems     repo.CartItemRepository
	inventory     repo.InventoryRepository
	products      repo.ProductRepository
	webhookEvents repo.WebhookEventRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository               { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *TxReposMock) Carts() repo.CartRepository                 { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository         { return r.cartItems }
func (r *TxReposMock) Inventory() repo.InventoryRepository        { return r.inventory }
func (r *TxReposMock) Products() repo.ProductRepository           { return r.products }
func (r *TxReposMock) WebhookEvents() repo.WebhookEventRepository { return r.webhookEvents }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	list, _ := args.Get(0).([]model.Order)
	total, _ := args.Get(1).(int64)
	return list, total, args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

func (m *OrderRepoMock) FindByCheckoutSessionID(ctx context.Context, sessionID string) (model.Order, error) {
	args := m.Called(ctx, sessionID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) SetCheckoutSession(ctx context.Context, orderID int64, sessionID string, checkoutURL string) error {
	args := m.Called(ctx, orderID, sessionID, checkoutURL)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatusIfPending(ctx context.Context, orderID int64, status model.OrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, status)
	return args.Bool(0), args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	list, _ := args.Get(0).([]model.OrderItem)
	return list, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	list, _ := args.Get(0).([]model.CartItem)
	return list, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).([]model.Product)
	total, _ := args.Get(1).(int64)
	return list, total, args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type WebhookEventRepoMock struct{ mock.Mock }

func (m *WebhookEventRepoMock) Exists(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *WebhookEventRepoMock) MarkProcessed(ctx context.Context, eventID string, eventType string) error {
	args := m.Called(ctx, eventID, eventType)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// =====================
// 決済・通知まわりのmock
// =====================

type CheckoutClientMock struct{ mock.Mock }

func (m *CheckoutClientMock) CreateCheckoutSession(ctx context.Context, in payment.CreateSessionInput) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*payment.CheckoutSession)
	return s, args.Error(1)
}

// 署名検証の成否を固定するスタブ
type SigVerifierStub struct {
	Err error
}

func (s *SigVerifierStub) Verify(payload []byte, header string) error {
	return s.Err
}

type QueueMock struct{ mock.Mock }

func (m *QueueMock) EnqueueOrderConfirmation(ctx context.Context, msg notify.OrderConfirmation) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// UUIDの代わりに固定IDを返す
type FixedIDGen struct {
	ID string
}

func (g *FixedIDGen) NewID() string { return g.ID }

var errDB = errors.New("db down")
