package sourcev1

import (
	"context"

	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
)

// Deliverer accepts trades from a source. Deliver blocks while the pipeline
// is saturated.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=sourcev1_mock
type Deliverer interface {
	Deliver(ctx context.Context, event tradev1.Event) error
}

// Source produces trades until its feed ends or ctx is cancelled. Returning
// signals end of stream for this source.
type Source interface {
	Name() string
	Run(ctx context.Context, deliverer Deliverer) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, event tradev1.Event) error

func (f DelivererFunc) Deliver(ctx context.Context, event tradev1.Event) error {
	return f(ctx, event)
}
