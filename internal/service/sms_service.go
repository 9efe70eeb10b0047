package service

import (
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/dedup"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// defaultCountryCode is prefixed to ten-digit mobile numbers
const defaultCountryCode = "+91"

// SMSService sends text messages through Twilio
type SMSService struct {
	createMessage       func(params *openapi.CreateMessageParams) error
	messagingServiceSid string
	enabled             bool
	logger              *zap.SugaredLogger
}

// NewSMSService creates an SMS service. Missing credentials disable it.
func NewSMSService(accountSid, authToken, messagingServiceSid string, logger *zap.SugaredLogger) *SMSService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if accountSid == "" || authToken == "" || messagingServiceSid == "" {
		logger.Infow("SMS service disabled: Twilio not configured")
		return &SMSService{logger: logger}
	}

	client := twilio.NewRestClientWithParams(twilio.RestClientParams{
		Username: accountSid,
		Password: authToken,
	})
	createMessage := func(params *openapi.CreateMessageParams) error {
		resp, err := client.ApiV2010.CreateMessage(params)
		if err != nil {
			return err
		}
		if resp.ErrorMessage != nil && *resp.ErrorMessage != "" {
			return fmt.Errorf("twilio: %s", *resp.ErrorMessage)
		}
		return nil
	}
	return &SMSService{
		createMessage:       createMessage,
		messagingServiceSid: messagingServiceSid,
		enabled:             true,
		logger:              logger,
	}
}

// IsEnabled returns whether the SMS service is enabled
func (s *SMSService) IsEnabled() bool {
	return s.enabled
}

// SendApproval tells a member their directory entry was approved
func (s *SMSService) SendApproval(settings models.SansthaSettings, m models.FamilyMember) error {
	to := e164(m.Mobile)
	if to == "" {
		return nil
	}
	msg := fmt.Sprintf("Namaste %s, your entry in the %s directory has been approved.", m.FullName, settings.Name)
	return s.send(to, msg)
}

func (s *SMSService) send(to, msg string) error {
	if !s.enabled {
		s.logger.Debugw("Skipping SMS send (service disabled)", "to", to)
		return nil
	}

	params := &openapi.CreateMessageParams{}
	params.SetMessagingServiceSid(s.messagingServiceSid)
	params.SetTo(to)
	params.SetBody(msg)

	if err := s.createMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", to, err)
	}

	s.logger.Infow("SMS sent", "to", to)
	return nil
}

// e164 formats a stored mobile number for sending, or returns "" when it
// has no usable digits
func e164(mobile string) string {
	digits := dedup.NormalizeMobile(mobile)
	switch {
	case len(digits) == 10:
		return defaultCountryCode + digits
	case len(digits) > 10:
		return "+" + digits
	default:
		return ""
	}
}
