package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// AWSSESSender sends dashboard report emails using AWS SES.
type AWSSESSender struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// Ensure AWSSESSender implements Sender
var _ Sender = (*AWSSESSender)(nil)

// NewAWSSESSender creates a new AWS SES email sender.
func NewAWSSESSender(region, fromAddress string, logger *slog.Logger) (*AWSSESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESSender{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger.With(slog.String("component", "ses_sender")),
	}, nil
}

// SendDashboardReport renders and delivers the dashboard report to the given address.
func (s *AWSSESSender) SendDashboardReport(ctx context.Context, to string, report DashboardReport) error {
	subject := "Your trading dashboard report"

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
    <h1>Dashboard report for %s</h1>
    <p>Generated at %s.</p>
    <p>Trades recorded: <strong>%d</strong></p>
    <p>This is an automated message. Please do not reply to this email.</p>
</body>
</html>
`, report.Username, report.GeneratedAt.Format("2006-01-02 15:04 MST"), report.TradeCount)

	textBody := fmt.Sprintf(`Dashboard report for %s

Generated at %s.
Trades recorded: %d

This is an automated message. Please do not reply to this email.
`, report.Username, report.GeneratedAt.Format("2006-01-02 15:04 MST"), report.TradeCount)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(textBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := s.sesClient.SendEmail(ctx, input); err != nil {
		s.logger.Error("failed to send dashboard report email",
			slog.String("to", to),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to send dashboard report email: %w", err)
	}

	s.logger.Info("dashboard report email sent", slog.String("to", to))
	return nil
}
