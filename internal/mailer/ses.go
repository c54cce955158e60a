// Package mailer delivers the report digest over AWS SES.
package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/luxvance/instantly-reporter/internal/config"
	"github.com/luxvance/instantly-reporter/internal/pkg/logger"
)

// Message is one outbound email. TextBody is optional.
type Message struct {
	Subject  string
	HTMLBody string
	TextBody string
	To       []string
}

// Sender sends digest emails via AWS SES using the SDK v2.
type Sender struct {
	cfg    config.SESConfig
	client *sesv2.Client
}

// NewSender creates an SES sender. Initializes the AWS SDK client only
// when credentials are present; an unconfigured sender reports so via
// Configured and Send refuses to run.
func NewSender(cfg config.SESConfig) *Sender {
	s := &Sender{cfg: cfg}
	if !cfg.Configured() {
		return s
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		log.Printf("[SES] Warning: Failed to initialize AWS config: %v", err)
		return s
	}
	s.client = sesv2.NewFromConfig(awsCfg)
	return s
}

// Configured reports whether the sender can actually send.
func (s *Sender) Configured() bool {
	return s.client != nil
}

// Send delivers the message to each recipient individually so one bad
// address does not block the rest. It returns the first error encountered
// after attempting all recipients.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if s.client == nil {
		return fmt.Errorf("SES client not initialized - check credentials")
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	var firstErr error
	for _, to := range msg.To {
		input := &sesv2.SendEmailInput{
			FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)),
			Destination:      &types.Destination{ToAddresses: []string{to}},
			Content: &types.EmailContent{
				Simple: &types.Message{
					Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
					Body: &types.Body{
						Html: &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String("UTF-8")},
					},
				},
			},
		}
		if msg.TextBody != "" {
			input.Content.Simple.Body.Text = &types.Content{Data: aws.String(msg.TextBody), Charset: aws.String("UTF-8")}
		}

		result, err := s.client.SendEmail(ctx, input)
		if err != nil {
			log.Printf("[SES] Failed to send to %s: %v", logger.RedactEmail(to), err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to send to %s: %w", logger.RedactEmail(to), err)
			}
			continue
		}

		messageID := ""
		if result.MessageId != nil {
			messageID = *result.MessageId
		}
		log.Printf("[SES] Sent to %s (id: %s)", logger.RedactEmail(to), messageID)
	}
	return firstErr
}
