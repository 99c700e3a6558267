package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gymstudio/internal/config"
	"gymstudio/internal/domain"
)

// gatewayReceiptMaxLen is the provider's hard limit on receipt identifiers.
// Truncation is deterministic and only collision-tolerant: the provider's own
// order id is the real external key.
const gatewayReceiptMaxLen = 40

type Service struct {
	regs     registrationStore
	events   eventReader
	payments paymentStore
	gw       Gateway
	notifs   notificationSender
	loggerf  func(format string, args ...interface{})

	secret   string
	currency string
}

func NewService(
	regs registrationStore,
	events eventReader,
	payments paymentStore,
	gw Gateway,
	notifs notificationSender,
	cfg *config.GatewayConfig,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		regs:     regs,
		events:   events,
		payments: payments,
		gw:       gw,
		notifs:   notifs,
		loggerf:  loggerf,
		secret:   cfg.KeySecret,
		currency: cfg.Currency,
	}
}

// CreateOrder opens an external payment order for a pending registration and
// records it locally with the provider's raw response kept for audit. The
// registration must already be durable; nothing here is speculative.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	reg, err := s.regs.GetByID(ctx, req.RegistrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if reg.Status != domain.RegistrationPending {
		return nil, ErrNotPayable
	}

	ev, err := s.events.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ev.IsFree() {
		return nil, ErrNotPayable
	}

	minor, ok := ToMinorUnits(req.Amount)
	if !ok {
		return nil, ErrValidation
	}
	if minor != ev.Price*100 {
		s.loggerf("level=warn msg=order amount mismatch registration_id=%d received=%s expected_units=%d", reg.ID, req.Amount, ev.Price)
		return nil, ErrAmountMismatch
	}

	receipt := fmt.Sprintf("reg%d_%d", reg.ID, time.Now().Unix())
	if len(receipt) > gatewayReceiptMaxLen {
		receipt = receipt[:gatewayReceiptMaxLen]
	}

	order, err := s.gw.CreateOrder(ctx, minor, s.currency, receipt)
	if err != nil {
		s.loggerf("level=error msg=gateway order creation failed registration_id=%d err=%v", reg.ID, err)
		return nil, err
	}

	p := &domain.Payment{
		Reference:       uuid.NewString(),
		Provider:        s.gw.Provider(),
		ProviderOrderID: order.ID,
		Status:          domain.PaymentCreated,
		Amount:          minor,
		Currency:        s.currency,
		Receipt:         receipt,
		RawOrderPayload: order.RawBody,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("save payment failed: %w", err)
	}
	if err := s.regs.LinkPayment(ctx, reg.ID, p.ID); err != nil {
		s.loggerf("level=error msg=failed to link payment registration_id=%d payment_id=%d err=%v", reg.ID, p.ID, err)
	}

	s.loggerf("level=info msg=payment order created registration_id=%d order_id=%s amount=%d", reg.ID, order.ID, minor)

	return &CreateOrderResponse{
		OrderID:         order.ID,
		Amount:          minor,
		Currency:        s.currency,
		PaymentRecordID: p.Reference,
	}, nil
}

// Verify checks a reported payment outcome against the shared secret and
// performs the terminal transition on the payment and its registration.
// Both the client's own callback and the gateway webhook may land here, in
// either order; a repeat against an already-paid payment is a no-op success.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" || req.RegistrationID == 0 {
		// Ambiguous input: reject outright, no optimistic transition.
		return nil, ErrValidation
	}

	// Resolve the order before trusting anything else in the payload. A
	// callback naming an order that was never opened changes no state.
	p, err := s.payments.GetByProviderOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !s.signatureValid(req.OrderID, req.PaymentID, req.Signature) {
		s.loggerf("level=warn msg=payment signature rejected order_id=%s registration_id=%d", req.OrderID, req.RegistrationID)
		s.failPayment(ctx, p, req)
		return nil, ErrInvalidSignature
	}

	reg, err := s.regs.GetByID(ctx, req.RegistrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// The signature binds order and payment ids only. The registration claim
	// has to match the link CreateOrder wrote, or a genuinely paid callback
	// would confirm whatever registration the caller names.
	if reg.PaymentID == nil || *reg.PaymentID != p.ID {
		s.loggerf("level=warn msg=verification registration mismatch order_id=%s registration_id=%d", req.OrderID, req.RegistrationID)
		return nil, ErrRegistrationMismatch
	}
	if reg.Status == domain.RegistrationCancelled {
		// Cancelled is terminal; the payment stays as-is for reconciliation.
		return nil, ErrNotPayable
	}

	rawBody, _ := json.Marshal(req)
	changed, err := s.payments.MarkPaidIdempotent(ctx, req.OrderID, string(rawBody), time.Now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !changed {
		s.loggerf("level=info msg=verification replay ignored order_id=%s", req.OrderID)
	}

	if reg.Status != domain.RegistrationConfirmed {
		if err := s.regs.UpdateStatus(ctx, reg.ID, domain.RegistrationConfirmed); err != nil {
			return nil, err
		}
		reg.Status = domain.RegistrationConfirmed
	}

	if changed && s.notifs != nil {
		ev, eerr := s.events.GetByID(ctx, reg.EventID)
		if eerr == nil {
			_ = s.notifs.RegistrationConfirmed(ctx, reg, ev)
		}
	}

	return &VerifyResponse{
		Status:             string(domain.PaymentPaid),
		RegistrationStatus: string(reg.Status),
	}, nil
}

func (s *Service) signatureValid(orderID, paymentID, supplied string) bool {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(supplied)))
}

// failPayment records the terminal failure after a signature mismatch. Every
// write is guarded: an already-paid payment is never demoted, a confirmed
// registration never fails retroactively, and only the registration the order
// was actually opened for can fail at all.
func (s *Service) failPayment(ctx context.Context, p *domain.Payment, req VerifyRequest) {
	rawBody, _ := json.Marshal(req)
	if err := s.payments.MarkFailed(ctx, req.OrderID, string(rawBody), "invalid signature"); err != nil {
		s.loggerf("level=error msg=failed to mark payment failed order_id=%s err=%v", req.OrderID, err)
	}

	reg, err := s.regs.GetByID(ctx, req.RegistrationID)
	if err != nil {
		return
	}
	if reg.PaymentID == nil || *reg.PaymentID != p.ID || reg.Status != domain.RegistrationPending {
		return
	}
	if err := s.regs.UpdateStatus(ctx, reg.ID, domain.RegistrationFailed); err != nil {
		s.loggerf("level=error msg=failed to mark registration failed registration_id=%d err=%v", reg.ID, err)
	}
}
