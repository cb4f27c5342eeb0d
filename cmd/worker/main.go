package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"app/internal/config"
	"app/internal/notify"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// 注文確認キューを長めのポーリングで消費するワーカー。
// メッセージはat-least-onceで届くので、送信処理はorder_id単位で冪等であること。
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Notify.QueueURL == "" {
		log.Fatalf("NOTIFY_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}
	client := sqs.NewFromConfig(awsCfg)

	log.Infof("worker started: queue=%s", cfg.Notify.QueueURL)

	for {
		out, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            &cfg.Notify.QueueURL,
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Infof("worker stopped")
				os.Exit(0)
			}
			log.Errorf("receive: %v", err)
			continue
		}

		for _, m := range out.Messages {
			var msg notify.OrderConfirmation
			if err := json.Unmarshal([]byte(*m.Body), &msg); err != nil {
				//壊れたメッセージは再送しても直らないので捨てる
				log.Warnf("drop malformed message: %v", err)
				deleteMessage(ctx, client, cfg.Notify.QueueURL, m.ReceiptHandle)
				continue
			}

			if err := sendConfirmation(msg); err != nil {
				//削除しなければ可視性タイムアウト後に再配送される
				log.Errorf("order %d: send confirmation: %v", msg.OrderID, err)
				continue
			}

			deleteMessage(ctx, client, cfg.Notify.QueueURL, m.ReceiptHandle)
		}
	}
}

// メール送信の口。今はログに出すだけ
func sendConfirmation(msg notify.OrderConfirmation) error {
	log.Infof("order confirmation sent: order=%s email=%s total=%d %s",
		msg.OrderNumber, msg.Email, msg.TotalPrice, msg.Currency)
	return nil
}

func deleteMessage(ctx context.Context, client *sqs.Client, queueURL string, receiptHandle *string) {
	_, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &queueURL,
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		log.Errorf("delete message: %v", err)
	}
}
