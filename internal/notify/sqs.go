package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSに投げるのに必要な操作だけ（テストではモックする）
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type SQSQueue struct {
	client   SQSAPI
	queueURL string
}

func NewSQSQueue(client SQSAPI, queueURL string) *SQSQueue {
	return &SQSQueue{
		client:   client,
		queueURL: queueURL,
	}
}

func (q *SQSQueue) EnqueueOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal confirmation: %w", err)
	}

	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"type": {
				DataType:    aws.String("String"),
				StringValue: aws.String("order_confirmation"),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
