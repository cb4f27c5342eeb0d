package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartFixture() (*CartUsecase, *CartRepoMock, *CartItemRepoMock, *ProductRepoMock) {
	carts := &CartRepoMock{}
	items := &CartItemRepoMock{}
	products := &ProductRepoMock{}
	return NewCartUsecase(carts, items, products), carts, items, products
}

func TestCart_GetCart_CreatesActiveCartWhenMissing(t *testing.T) {
	uc, carts, items, _ := newCartFixture()

	carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5, UserID: 7}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	out, err := uc.GetCart(context.Background(), 7)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.Total)
}

// 合計は常に商品の現在価格で計算される
func TestCart_TotalsUseCurrentProductPrice(t *testing.T) {
	uc, carts, items, products := newCartFixture()

	carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, Quantity: 2},
	}, nil)
	//カート投入後に値上げされた想定
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Name: "Widget", Price: 1200, Stock: 10, IsActive: true}, nil)

	out, err := uc.GetCart(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(2400), out.Total)
	assert.Equal(t, int64(1200), out.Items[0].Price)
}

func TestCart_AddToCart_MergesQuantityForSameProduct(t *testing.T) {
	uc, carts, items, products := newCartFixture()

	carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Name: "Widget", Price: 1000, Stock: 10, IsActive: true}, nil)

	//既存2個
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, Quantity: 2},
	}, nil).Once()
	items.On("UpsertByCartAndProduct", mock.Anything, int64(5), int64(100), int64(3)).Return(nil).Once()
	//upsert後の再取得
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, Quantity: 5},
	}, nil).Once()

	out, err := uc.AddToCart(context.Background(), 7, AddCartInput{ProductID: 100, Quantity: 3})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.Items[0].Quantity)
	items.AssertExpectations(t)
}

func TestCart_AddToCart_RejectsQuantityOverStock(t *testing.T) {
	uc, carts, items, products := newCartFixture()

	carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Price: 1000, Stock: 3, IsActive: true}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, Quantity: 2},
	}, nil)

	//既存2 + 追加2 > 在庫3
	_, err := uc.AddToCart(context.Background(), 7, AddCartInput{ProductID: 100, Quantity: 2})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "stock exceeded", httpErr.Message)
	items.AssertNumberOfCalls(t, "UpsertByCartAndProduct", 0)
}

func TestCart_AddToCart_RejectsInactiveProduct(t *testing.T) {
	uc, carts, _, products := newCartFixture()

	carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, IsActive: false}, nil)

	_, err := uc.AddToCart(context.Background(), 7, AddCartInput{ProductID: 100, Quantity: 1})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "product unavailable", httpErr.Message)
}

func TestCart_AddToCart_RejectsZeroQuantity(t *testing.T) {
	uc, _, _, _ := newCartFixture()

	_, err := uc.AddToCart(context.Background(), 7, AddCartInput{ProductID: 100, Quantity: 0})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "invalid quantity", httpErr.Message)
}

// 他人の明細は存在ごと隠す（404）
func TestCart_UpdateCartItem_OtherUsersItemIs404(t *testing.T) {
	uc, _, items, _ := newCartFixture()

	items.On("IsOwnedByUser", mock.Anything, int64(1), int64(7)).Return(false, nil)

	_, err := uc.UpdateCartItem(context.Background(), 7, 1, UpdateCartItemInput{Quantity: 2})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	items.AssertNumberOfCalls(t, "UpdateQuantity", 0)
}

func TestCart_DeleteCartItem_RemovesOwnedItem(t *testing.T) {
	uc, carts, items, _ := newCartFixture()

	items.On("IsOwnedByUser", mock.Anything, int64(1), int64(7)).Return(true, nil)
	items.On("DeleteByID", mock.Anything, int64(1)).Return(nil)
	carts.On("FindActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	out, err := uc.DeleteCartItem(context.Background(), 7, 1)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	items.AssertExpectations(t)
}

func TestCart_DeleteCartItem_MissingItemIs404(t *testing.T) {
	uc, _, items, _ := newCartFixture()

	items.On("IsOwnedByUser", mock.Anything, int64(1), int64(7)).Return(true, nil)
	items.On("DeleteByID", mock.Anything, int64(1)).Return(repo.ErrNotFound)

	_, err := uc.DeleteCartItem(context.Background(), 7, 1)

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}
