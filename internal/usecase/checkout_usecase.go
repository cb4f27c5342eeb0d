package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/payment"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

// UUID等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// CheckoutUsecase はカートをPENDING注文とプロバイダ決済セッションに変換する。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	addresses repo.AddressRepository
	checkout  payment.CheckoutClient
	idGen     IDGenerator
	currency  string
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	addresses repo.AddressRepository,
	checkout payment.CheckoutClient,
	idGen IDGenerator,
	currency string,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:        tx,
		addresses: addresses,
		checkout:  checkout,
		idGen:     idGen,
		currency:  currency,
	}
}

type CheckoutInput struct {
	AddressID int64
}

type CheckoutOutput struct {
	OrderID     int64             `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Status      string            `json:"status"`
	TotalPrice  int64             `json:"total_price"`
	Currency    string            `json:"currency"`
	CheckoutURL string            `json:"checkout_url"`
	Items       []OrderItemOutput `json:"items"`
}

// InitiateCheckout はチェックアウトを開始する。
// 注文＋明細の作成・セッション紐付け・カートのクリアは1トランザクション。
// 途中で失敗したら全部ロールバックされ、カートは残る。
func (u *CheckoutUsecase) InitiateCheckout(ctx context.Context, userID int64, in CheckoutInput) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.AddressID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "address is required")
	}

	//address_idの存在確認＋所有チェック
	addr, err := u.addresses.FindByID(ctx, in.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repo.ErrNotFound) {
			return CheckoutOutput{}, NewHTTPError(http.StatusNotFound, "address not found")
		}
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if addr.UserID != userID {
		return CheckoutOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var out CheckoutOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//ACTIVEカート取得
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//明細ごとに現在価格を凍結して、在庫を減らす
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		sessionItems := make([]payment.SessionLineItem, 0, len(cartItems))
		var total int64 = 0

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "product unavailable")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "product unavailable")
			}

			//在庫減算（足りないなら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "out of stock")
			}

			//ここで凍結した価格が注文の価格になる
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            ci.Quantity,
				CreatedAt:           time.Now(),
			})
			sessionItems = append(sessionItems, payment.SessionLineItem{
				Name:       p.Name,
				UnitAmount: p.Price,
				Quantity:   ci.Quantity,
			})

			total += p.Price * ci.Quantity
		}

		// 注文作成（PENDING）
		now := time.Now()
		orderNumber := u.idGen.NewID()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:      userID,
			OrderNumber: orderNumber,
			AddressID:   in.AddressID,
			Status:      model.OrderStatusPending,
			TotalPrice:  total,
			Currency:    u.currency,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//プロバイダにセッション作成を依頼。
		//失敗したらトランザクションごとロールバックされるので、
		//注文は残らずカートもそのまま。クライアントは再試行できる。
		session, err := u.checkout.CreateCheckoutSession(ctx, payment.CreateSessionInput{
			OrderNumber: orderNumber,
			Currency:    u.currency,
			Items:       sessionItems,
		})
		if err != nil {
			return NewHTTPError(http.StatusBadGateway, "payment provider unavailable")
		}

		if err := r.Orders().SetCheckoutSession(ctx, orderID, session.ID, session.URL); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文が確定したのでカートをCHECKED_OUTにして明細をクリア
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = CheckoutOutput{
			OrderID:     orderID,
			OrderNumber: orderNumber,
			Status:      string(model.OrderStatusPending),
			TotalPrice:  total,
			Currency:    u.currency,
			CheckoutURL: session.URL,
			Items:       toOrderItemOutputs(orderItems),
		}
		return nil
	})

	if err != nil {
		return CheckoutOutput{}, err
	}
	return out, nil
}
