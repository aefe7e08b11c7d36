package pipeline

import "time"

// Options represents configuration options for the Pipeline.
type Options struct {
	QueueSize       int
	Workers         int
	TickPeriod      time.Duration
	FlushOnShutdown bool
}

// DefaultPipelineOptions returns the default pipeline options.
func DefaultPipelineOptions() *Options {
	return &Options{
		QueueSize:       100,
		Workers:         2,
		TickPeriod:      time.Minute,
		FlushOnShutdown: false,
	}
}
