package event

import (
	"context"
	"encoding/json"
	"fmt"
	"loan-ledger/internal/infrastructure/monitoring"
	"log/slog"

	"github.com/dustin/go-humanize"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

// Notification is a human readable message addressed to a loan owner.
type Notification struct {
	OwnerID string
	LoanID  string
	Title   string
	Message string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "LogNotifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	n.logger.InfoContext(ctx, notification.Message,
		slog.String("ownerID", notification.OwnerID),
		slog.String("loanID", notification.LoanID),
		slog.String("title", notification.Title),
	)
	return nil
}

type LoanEventHandler struct {
	notifier Notifier
	currency string
	logger   *slog.Logger
}

func NewLoanEventHandler(notifier Notifier, currency string, logger *slog.Logger) *LoanEventHandler {
	return &LoanEventHandler{
		notifier: notifier,
		currency: currency,
		logger:   logger.With("component", "LoanEventHandler"),
	}
}

func (h *LoanEventHandler) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	logCtx := h.logger.With(slog.Uint64("deliveryTag", d.DeliveryTag), slog.String("routingKey", d.RoutingKey))

	notification, err := h.BuildNotification(d.RoutingKey, d.Body)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to decode loan event. Discarding.", "error", err, "body", string(d.Body))
		_ = d.Reject(false)
		return
	}

	monitoring.RecordEventConsumed(d.RoutingKey)
	if err := h.notifier.Notify(ctx, notification); err != nil {
		logCtx.ErrorContext(ctx, "Failed to deliver notification", "error", err)
		_ = d.Nack(false, true)
		return
	}

	if err := d.Ack(false); err != nil {
		logCtx.ErrorContext(ctx, "Failed to acknowledge message after successful processing", "error", err)
		return
	}
	logCtx.DebugContext(ctx, "Processed and acknowledged loan event")
}

// BuildNotification turns a raw event body into the message shown to the loan owner.
func (h *LoanEventHandler) BuildNotification(routingKey string, body []byte) (Notification, error) {
	switch routingKey {
	case RoutingKeyLoanCreated:
		var e LoanCreatedEvent
		if err := json.Unmarshal(body, &e); err != nil {
			return Notification{}, fmt.Errorf("unmarshal %s: %w", routingKey, err)
		}
		return Notification{
			OwnerID: e.OwnerID,
			LoanID:  e.LoanID,
			Title:   "Loan approved",
			Message: fmt.Sprintf("Your %s loan of %s has been approved. Monthly payment: %s over %d months.",
				e.Purpose, h.money(e.Principal), h.money(e.MonthlyPayment), e.DurationMonths),
		}, nil
	case RoutingKeyLoanPaymentMade:
		var e PaymentMadeEvent
		if err := json.Unmarshal(body, &e); err != nil {
			return Notification{}, fmt.Errorf("unmarshal %s: %w", routingKey, err)
		}
		return Notification{
			OwnerID: e.OwnerID,
			LoanID:  e.LoanID,
			Title:   "Payment received",
			Message: fmt.Sprintf("Payment of %s received for loan %s. Remaining balance: %s.",
				h.money(e.Amount), e.LoanID, h.money(e.RemainingBalance)),
		}, nil
	case RoutingKeyLoanStatusChanged:
		var e LoanStatusChangedEvent
		if err := json.Unmarshal(body, &e); err != nil {
			return Notification{}, fmt.Errorf("unmarshal %s: %w", routingKey, err)
		}
		return Notification{
			OwnerID: e.OwnerID,
			LoanID:  e.LoanID,
			Title:   "Loan status changed",
			Message: fmt.Sprintf("Loan %s moved from %s to %s.", e.LoanID, e.OldStatus, e.NewStatus),
		}, nil
	default:
		return Notification{}, fmt.Errorf("unknown routing key %q", routingKey)
	}
}

func (h *LoanEventHandler) money(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return h.currency + " " + amount
	}
	f, _ := d.Round(2).Float64()
	return h.currency + " " + humanize.FormatFloat("#,###.##", f)
}
