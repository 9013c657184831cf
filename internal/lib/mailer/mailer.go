// Package mailer sends plain-text notification mail.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"devEvents/internal/config"
)

const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

// SendEmailAPI is the part of the SES client the mailer needs.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// New picks a provider from config. Unknown providers fall back to noop.
func New(cfg config.Mailer, log *slog.Logger) Mailer {
	log = log.With(slog.String("component", "mailer"))

	switch cfg.Provider {
	case ProviderSES:
		awsCfg := aws.Config{
			Region: cfg.SES.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					cfg.SES.AccessKeyID,
					cfg.SES.SecretAccessKey,
					"",
				),
			),
		}

		return NewSES(ses.NewFromConfig(awsCfg), cfg.FromAddress, cfg.FromName, log)
	case ProviderNoop:
		return &noopMailer{log: log}
	default:
		log.Warn("unknown mail provider, using noop", slog.String("provider", cfg.Provider))
		return &noopMailer{log: log}
	}
}

type sesMailer struct {
	client      SendEmailAPI
	fromAddress string
	fromName    string
	log         *slog.Logger
}

func NewSES(client SendEmailAPI, fromAddress, fromName string, log *slog.Logger) Mailer {
	return &sesMailer{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		log:         log,
	}
}

func (s *sesMailer) Send(ctx context.Context, to, subject, text string) error {
	const op = "lib.mailer.ses.Send"

	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(text),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("email sent", slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}

type noopMailer struct {
	log *slog.Logger
}

func (n *noopMailer) Send(_ context.Context, to, subject, _ string) error {
	n.log.Debug("email would be sent", slog.String("to", to), slog.String("subject", subject))

	return nil
}
