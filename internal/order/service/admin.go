package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/internal/order/repo"
	"github.com/Skotchmaster/topup_shop/internal/order/transport"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

const defaultCancelReason = "Cancelled by admin"

func (s *OrderService) AdminListOrders(ctx context.Context, status, paymentStatus string, page, size int) (*transport.OrderList, error) {
	if status != "" && !models.OrderStatus(status).Valid() {
		return nil, apperr.Validation("Invalid order status")
	}
	if paymentStatus != "" && !models.PaymentStatus(paymentStatus).Valid() {
		return nil, apperr.Validation("Invalid payment status")
	}

	page, offset, limit := util.Calculate(page, size, AdminPageSize, adminMaxPage)
	return s.list(ctx, repo.OrderFilter{
		Status:        status,
		PaymentStatus: paymentStatus,
		Offset:        offset,
		Limit:         limit,
	}, page, limit)
}

func (s *OrderService) AdminGetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

// PatchOrder applies a manual review. Each status moves one legal step at
// most.
func (s *OrderService) PatchOrder(ctx context.Context, id uuid.UUID, req transport.PatchOrderRequest) (*models.Order, error) {
	o, err := s.AdminGetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		to := models.OrderStatus(*req.Status)
		if !to.Valid() || !o.Status.CanTransition(to) {
			return nil, apperr.Validation("Cannot change order status from %s to %s", o.Status, to)
		}
		o.Status = to
	}
	if req.PaymentStatus != nil {
		to := models.PaymentStatus(*req.PaymentStatus)
		if !to.Valid() || !o.PaymentStatus.CanTransition(to) {
			return nil, apperr.Validation("Cannot change payment status from %s to %s", o.PaymentStatus, to)
		}
		o.PaymentStatus = to
	}
	if req.Notes != nil {
		o.Notes = *req.Notes
	}

	if err := s.Repo.SaveStatus(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// CompleteOrder drives both status machines to COMPLETED along their legal
// paths.
func (s *OrderService) CompleteOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.AdminGetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, ok := o.Status.PathTo(models.OrderCompleted); !ok {
		return nil, apperr.Validation("Cannot complete an order in status %s", o.Status)
	}
	if _, ok := o.PaymentStatus.PathTo(models.PaymentCompleted); !ok {
		return nil, apperr.Validation("Cannot complete an order with payment status %s", o.PaymentStatus)
	}
	o.Status = models.OrderCompleted
	o.PaymentStatus = models.PaymentCompleted

	if err := s.Repo.SaveStatus(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID, reason string) (*models.Order, error) {
	o, err := s.AdminGetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransition(models.OrderCancelled) {
		return nil, apperr.Validation("Cannot cancel an order in status %s", o.Status)
	}
	o.Status = models.OrderCancelled
	o.Notes = reason
	if o.Notes == "" {
		o.Notes = defaultCancelReason
	}

	if err := s.Repo.SaveStatus(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
