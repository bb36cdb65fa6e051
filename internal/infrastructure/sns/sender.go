package sns

import (
	"context"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/fleetdesk-api/internal/config"
)

// SMSSender sends SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type sender struct {
	client *sns.Client
}

// NewSender builds an SNS-backed SMS sender for production use.
func NewSender(cfg *config.Config) (SMSSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &sender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *sender) SendSMS(ctx context.Context, to, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &message,
	})
	return err
}

// LogSender writes the message to the log instead of dispatching it. Used in
// non-production environments so OTP codes are visible without an SMS
// provider.
type LogSender struct{}

func NewLogSender() SMSSender { return LogSender{} }

func (LogSender) SendSMS(_ context.Context, to, message string) error {
	slog.Info("sms (not dispatched)", "to", to, "message", message)
	return nil
}
