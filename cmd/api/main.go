package main

import (
	"context"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/notify"
	"app/internal/payment"
	"app/internal/server"
	"app/internal/usecase"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Address{},
		&model.Order{},
		&model.OrderItem{},
		&model.WebhookEvent{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	hasher := usecase.NewBcryptPasswordHasher(12)
	verifier := usecase.NewBcryptPasswordVerifier()

	//アクセストークン
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//決済プロバイダ
	stripeClient := payment.NewStripeClient(cfg.Stripe)
	sigVerifier := payment.NewSignatureVerifier(cfg.Stripe.WebhookSecret)

	//通知キュー
	var queue notify.Queue = notify.NewLogQueue()
	if cfg.Notify.QueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			log.Fatalf("aws config: %v", err)
		}
		queue = notify.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.Notify.QueueURL)
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, hasher, verifier, issuer)
	productUC := usecase.NewProductUsecase(productRepo)
	//CartGormRepositoryはカートと明細の両インターフェースを満たす
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, addressRepo, stripeClient, idGen, cfg.Stripe.Currency)
	orderUC := usecase.NewOrderUsecase(txManager)
	webhookUC := usecase.NewWebhookUsecase(txManager, userRepo, sigVerifier, queue)

	//Handler生成とServer起動
	e := server.New(cfg, server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Product:  handler.NewProductHandler(productUC),
		Cart:     handler.NewCartHandler(cartUC),
		Address:  handler.NewAddressHandler(addressUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Order:    handler.NewOrderHandler(orderUC),
		Webhook:  handler.NewWebhookHandler(webhookUC),
	})

	if err := server.Start(e, ":"+cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
