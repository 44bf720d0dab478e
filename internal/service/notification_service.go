package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/carventory/internal/events"
	"github.com/spec-kit/carventory/internal/mailer"
)

// NotificationService emails the interested party when marketplace events
// fire. Send failures are logged and never propagate to the originating
// request.
type NotificationService struct {
	dispatcher events.Dispatcher
	mail       mailer.Sender
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mail mailer.Sender, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, mail: mail, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOfferCreated, n.handleOfferCreated)
	n.dispatcher.Subscribe(events.EventOfferResolved, n.handleOfferResolved)
	n.dispatcher.Subscribe(events.EventAdminDecided, n.handleAdminDecided)
}

func (n *NotificationService) handleOfferCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OfferCreatedPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf(`<h2>New Offer Received</h2>
<p><strong>%s</strong> offered <strong>%.0f</strong> for your listing "%s".</p>
<p>Log in to your dashboard to accept or reject the offer.</p>`,
		payload.BuyerName, payload.Amount, payload.CarTitle)

	if err := n.mail.Send(ctx, payload.SellerEmail, "New offer on your car listing", body); err != nil {
		n.logger.Warn("offer notification failed", zap.String("offer_id", payload.OfferID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleOfferResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OfferResolvedPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf(`<h2>Offer %s</h2>
<p>Your offer of <strong>%.0f</strong> on "%s" has been %s by the seller.</p>`,
		payload.NewStatus, payload.Amount, payload.CarTitle, payload.NewStatus)

	if err := n.mail.Send(ctx, payload.BuyerEmail, fmt.Sprintf("Your offer was %s", payload.NewStatus), body); err != nil {
		n.logger.Warn("offer resolution notification failed", zap.String("offer_id", payload.OfferID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleAdminDecided(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AdminDecidedPayload)
	if !ok {
		return nil
	}

	subject := "Admin Account Rejected"
	body := `<h1>Account Rejected</h1>
<p>We regret to inform you that your admin account request has been rejected.</p>`
	if payload.Approved {
		subject = "Admin Account Approved"
		body = `<h1>Account Approved</h1>
<p>Your admin account has been approved. You can now log in to the dashboard.</p>`
	}

	if err := n.mail.Send(ctx, payload.AdminEmail, subject, body); err != nil {
		n.logger.Warn("admin decision notification failed", zap.String("admin_id", payload.AdminID), zap.Error(err))
	}
	return nil
}
