package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI is the subset of the SQS client used by SQSSender.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// CodeMessage is the body of a message on the outbound SMS queue.
type CodeMessage struct {
	Mobile    string    `json:"mobile"`
	Code      string    `json:"code"`
	Template  string    `json:"template"`
	CreatedAt time.Time `json:"created_at"`
}

// SQSSender implements the Sender interface by enqueueing codes for the SMS worker.
type SQSSender struct {
	Client   SQSAPI
	QueueURL string
	Template string
}

// NewSQSSender creates a new SQSSender.
func NewSQSSender(client SQSAPI, queueURL, template string) *SQSSender {
	return &SQSSender{
		Client:   client,
		QueueURL: queueURL,
		Template: template,
	}
}

// Make sure we conform to the interface
var _ Sender = (*SQSSender)(nil)

// SendCode sends the code to the SQS queue. The SMS worker owns delivery from there.
func (s *SQSSender) SendCode(ctx context.Context, subject, code string) error {
	body, err := json.Marshal(CodeMessage{
		Mobile:    subject,
		Code:      code,
		Template:  s.Template,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal code message for SQS: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
