package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// Notifications sends the registration email and the approval SMS
type Notifications struct {
	email  *EmailService
	sms    *SMSService
	logger *zap.SugaredLogger
}

func NewNotifications(email *EmailService, sms *SMSService, logger *zap.SugaredLogger) *Notifications {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Notifications{email: email, sms: sms, logger: logger}
}

func (n *Notifications) MemberSubmitted(ctx context.Context, settings models.SansthaSettings, m models.FamilyMember) {
	if n.email == nil {
		return
	}
	if err := n.email.SendRegistrationPending(ctx, settings, m); err != nil {
		n.logger.Warnw("Registration email failed", "member", m.ID, "error", err)
	}
}

func (n *Notifications) MemberApproved(ctx context.Context, settings models.SansthaSettings, m models.FamilyMember) {
	if n.sms == nil {
		return
	}
	if err := n.sms.SendApproval(settings, m); err != nil {
		n.logger.Warnw("Approval SMS failed", "member", m.ID, "error", err)
	}
}
