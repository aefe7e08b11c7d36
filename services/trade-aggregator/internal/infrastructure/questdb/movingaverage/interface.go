package movingaverage

import "context"

// MovingAverageRepository is the interface for the moving_averages table.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type MovingAverageRepository interface {
	Store(ctx context.Context, avg *MovingAverage) error
}
