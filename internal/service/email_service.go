package service

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// sesClient is the part of the SES API the service uses
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client    sesClient
	fromEmail string
	fromName  string
	enabled   bool
	logger    *zap.SugaredLogger
}

// NewEmailService creates a new email service. Without a sender address
// the service is disabled and every send is skipped.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName string, logger *zap.SugaredLogger) (*EmailService, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if fromEmail == "" {
		logger.Infow("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, logger: logger}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Infow("Email service enabled", "from", fromEmail, "region", awsRegion)
	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		logger:    logger,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendRegistrationPending tells the organization a new registration is
// waiting for approval
func (s *EmailService) SendRegistrationPending(ctx context.Context, settings models.SansthaSettings, m models.FamilyMember) error {
	if settings.ContactEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("New registration pending: %s", m.FullName)
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>%s</h2>
	<p>A new directory registration is waiting for approval.</p>
	<table>
		<tr><td>Name</td><td>%s</td></tr>
		<tr><td>Mobile</td><td>%s</td></tr>
		<tr><td>City</td><td>%s</td></tr>
	</table>
</body>
</html>
`, html.EscapeString(settings.Name), html.EscapeString(m.FullName), html.EscapeString(m.Mobile), html.EscapeString(m.CurrentAddress.City))

	textBody := fmt.Sprintf(`%s

A new directory registration is waiting for approval.

Name:   %s
Mobile: %s
City:   %s
`, settings.Name, m.FullName, m.Mobile, m.CurrentAddress.City)

	return s.sendEmail(ctx, settings.ContactEmail, subject, htmlBody, textBody)
}

// sendEmail is the internal method that actually sends the email via SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	if !s.enabled {
		s.logger.Debugw("Skipping email send (service disabled)", "to", toEmail, "subject", subject)
		return nil
	}

	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
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
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	s.logger.Infow("Email sent", "to", toEmail, "subject", subject, "messageId", aws.ToString(result.MessageId))
	return nil
}
