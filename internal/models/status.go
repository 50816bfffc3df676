package models

import "slices"

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderFailed     OrderStatus = "FAILED"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled, OrderFailed},
	OrderProcessing: {OrderCompleted, OrderCancelled, OrderFailed},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentProcessing},
	PaymentProcessing: {PaymentCompleted, PaymentFailed, PaymentRefunded},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled, OrderFailed:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// CanTransition allows one legal step. Staying in place is always allowed.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	return s == to || slices.Contains(orderTransitions[s], to)
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) Terminal() bool {
	return s.Valid() && len(paymentTransitions[s]) == 0
}

func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	return s == to || slices.Contains(paymentTransitions[s], to)
}

// PathTo returns the steps that lead from s to target through legal
// transitions, excluding s itself. ok is false when target is unreachable.
func (s OrderStatus) PathTo(target OrderStatus) (path []OrderStatus, ok bool) {
	return walk(s, target, orderTransitions)
}

func (s PaymentStatus) PathTo(target PaymentStatus) (path []PaymentStatus, ok bool) {
	return walk(s, target, paymentTransitions)
}

func walk[S comparable](from, to S, edges map[S][]S) ([]S, bool) {
	if from == to {
		return nil, true
	}
	type node struct {
		state S
		path  []S
	}
	seen := map[S]bool{from: true}
	queue := []node{{state: from}}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, next := range edges[n.state] {
			if seen[next] {
				continue
			}
			p := append(slices.Clone(n.path), next)
			if next == to {
				return p, true
			}
			seen[next] = true
			queue = append(queue, node{state: next, path: p})
		}
	}
	return nil, false
}
