package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/internal/payment/repo"
	"github.com/Skotchmaster/topup_shop/internal/payment/transport"
)

// amountTolerance is how far a reported transfer may differ from the order
// total and still be accepted.
var amountTolerance = decimal.NewFromInt(1)

type PaymentService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// payableOrder loads the order and checks the caller may pay it. Orders
// placed as GUEST are payable by anyone holding their id.
func (s *PaymentService) payableOrder(ctx context.Context, rawID, callerID string) (*models.Order, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, apperr.NotFound("Order not found")
	}
	o, err := s.Repo.GetOrder(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Order not found")
	}
	if err != nil {
		return nil, err
	}

	if o.UserID != models.GuestUserID && o.UserID != callerID {
		return nil, apperr.Forbidden("Not authorized")
	}
	if o.PaymentStatus.Terminal() {
		return nil, apperr.Validation("Payment for this order is already %s", strings.ToLower(string(o.PaymentStatus)))
	}
	return o, nil
}

func (s *PaymentService) submit(ctx context.Context, p *models.Payment) error {
	err := s.Repo.Submit(ctx, p)
	switch {
	case errors.Is(err, repo.ErrTransactionUsed):
		return apperr.Conflict("This transaction ID has already been used")
	case errors.Is(err, repo.ErrPaymentClosed):
		return apperr.Validation("Payment for this order is already closed")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("Order not found")
	}
	return err
}

// SubmitManual records a bKash/Nagad transfer for review. The order moves
// to payment PROCESSING; only an admin completes it.
func (s *PaymentService) SubmitManual(ctx context.Context, callerID string, req transport.ManualPaymentRequest) (*models.Payment, error) {
	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Manual() {
		return nil, apperr.Validation("Payment method must be BKASH or NAGAD")
	}
	txID := strings.TrimSpace(req.TransactionID)
	if txID == "" || strings.TrimSpace(req.SenderNumber) == "" {
		return nil, apperr.Validation("Sender number and transaction ID are required")
	}
	if req.Amount.IsNegative() {
		return nil, apperr.Validation("Amount must not be negative")
	}

	o, err := s.payableOrder(ctx, req.OrderID, callerID)
	if err != nil {
		return nil, err
	}
	if req.Amount.Sub(o.TotalAmount).Abs().GreaterThan(amountTolerance) {
		return nil, apperr.Validation("Amount does not match order total")
	}

	used, err := s.Repo.TransactionUsed(ctx, txID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, apperr.Conflict("This transaction ID has already been used")
	}

	p := &models.Payment{
		OrderID:       o.ID,
		Amount:        req.Amount,
		PaymentMethod: method,
		TransactionID: txID,
		SenderNumber:  strings.TrimSpace(req.SenderNumber),
		SenderName:    strings.TrimSpace(req.SenderName),
		Status:        models.PaymentPending,
	}
	if err := s.submit(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SubmitCard stands in for a card gateway: it records a placeholder payment
// for the full total and marks the order PROCESSING.
func (s *PaymentService) SubmitCard(ctx context.Context, callerID string, req transport.CardPaymentRequest) (*models.Payment, error) {
	o, err := s.payableOrder(ctx, req.OrderID, callerID)
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		OrderID:       o.ID,
		Amount:        o.TotalAmount,
		PaymentMethod: models.MethodCard,
		TransactionID: fmt.Sprintf("CARD-%d", s.now().UnixMilli()),
		Status:        models.PaymentPending,
	}
	if err := s.submit(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) OrderPaymentStatus(ctx context.Context, orderID uuid.UUID) (*transport.PaymentStatusView, error) {
	o, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Order not found")
	}
	if err != nil {
		return nil, err
	}

	p, err := s.Repo.LatestPayment(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return &transport.PaymentStatusView{
		Order: transport.OrderSummary{
			ID:            o.ID,
			OrderNumber:   o.OrderNumber,
			Status:        o.Status,
			PaymentStatus: o.PaymentStatus,
			TotalAmount:   o.TotalAmount,
		},
		Payment: p,
	}, nil
}
