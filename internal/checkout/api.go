package checkout

import (
	"context"

	"github.com/samber/lo"

	"github.com/Skotchmaster/topup_shop/pkg/apiclient"
)

// APITier places the order through the storefront API: the order first,
// then the manual payment for the cart total.
type APITier struct {
	Client *apiclient.Client
}

func (t *APITier) Name() string { return "api" }

func (t *APITier) CreateOrder(ctx context.Context, req Request) (*Order, error) {
	in := apiclient.OrderInput{
		Items: lo.Map(req.Lines, func(l Line, _ int) apiclient.OrderItem {
			return apiclient.OrderItem{
				ProductID:      l.ProductID,
				DenominationID: l.DenominationID,
				Quantity:       l.Quantity,
				GameUID:        req.GameUID,
				Server:         l.Server,
				PlayerID:       req.PlayerID,
			}
		}),
		BillingInfo:   apiclient.Billing(req.Billing),
		PaymentMethod: req.PaymentMethod,
	}

	created, err := t.Client.CreateOrder(ctx, req.Token, in)
	if err != nil {
		return nil, err
	}
	return &Order{
		ID:            created.ID,
		OrderNumber:   created.OrderNumber,
		Lines:         req.Lines,
		TotalAmount:   created.TotalAmount,
		Status:        created.Status,
		PaymentStatus: created.PaymentStatus,
		PaymentMethod: req.PaymentMethod,
		Billing:       req.Billing,
		CreatedAt:     created.CreatedAt,
		UpdatedAt:     created.CreatedAt,
	}, nil
}

func (t *APITier) CreatePayment(ctx context.Context, o *Order, req Request) error {
	return t.Client.SubmitManualPayment(ctx, req.Token, apiclient.ManualPayment{
		OrderID:       o.ID,
		PaymentMethod: req.PaymentMethod,
		SenderNumber:  req.SenderNumber,
		SenderName:    req.SenderName,
		TransactionID: req.TransactionID,
		Amount:        req.Total(),
	})
}
