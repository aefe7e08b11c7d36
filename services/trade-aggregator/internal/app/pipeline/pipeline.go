package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	"github.com/muhammadchandra19/trade-aggregator/pkg/queue"
	"github.com/muhammadchandra19/trade-aggregator/pkg/util"
	candlestickv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
	sinkv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/sink/v1"
	sourcev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/source/v1"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = stderrors.New("pipeline already started")

// Dependencies are the collaborators the pipeline drives.
type Dependencies struct {
	Aggregator candlestickv1.Aggregator
	Tracker    movingaveragev1.Tracker
	Sink       sinkv1.Sink
	Sources    []sourcev1.Source
	Logger     logger.Interface
}

// Pipeline moves trades from the sources through a bounded queue to a pool
// of workers, and flushes candlesticks once per tick.
type Pipeline struct {
	opts       Options
	queue      *queue.Queue[tradev1.Event]
	aggregator candlestickv1.Aggregator
	tracker    movingaveragev1.Tracker
	sink       sinkv1.Sink
	sources    []sourcev1.Source
	logger     logger.Interface

	started     atomic.Bool
	finished    []atomic.Bool
	workers     sync.WaitGroup
	workersDone chan struct{}
	scheduled   chan struct{}
	window      windowCounter
	onDrain     []func()

	now       func() time.Time
	newTicker func(d time.Duration) (<-chan time.Time, func())
}

// New validates opts and allocates the queue. A queue that cannot be
// allocated is a startup failure.
func New(deps Dependencies, opts *Options) (*Pipeline, error) {
	if opts == nil {
		opts = DefaultPipelineOptions()
	}
	if opts.Workers < 1 {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("workers must be at least 1, got %d", opts.Workers),
			string(errors.ConfigValidationError),
			"workers",
		)
	}
	if opts.TickPeriod <= 0 {
		return nil, errors.NewErrorDetails("tick period must be positive", string(errors.ConfigValidationError), "tick_period")
	}
	if deps.Aggregator == nil || deps.Tracker == nil || deps.Sink == nil {
		return nil, errors.NewErrorDetails("aggregator, tracker and sink are required", string(errors.ConfigValidationError), "dependencies")
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}

	q, err := queue.New[tradev1.Event](opts.QueueSize)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		opts:        *opts,
		queue:       q,
		aggregator:  deps.Aggregator,
		tracker:     deps.Tracker,
		sink:        deps.Sink,
		sources:     deps.Sources,
		logger:      deps.Logger,
		finished:    make([]atomic.Bool, opts.Workers),
		workersDone: make(chan struct{}),
		scheduled:   make(chan struct{}),
		now:         time.Now,
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}, nil
}

// OnDrain registers fn to run once every source has returned, before the
// queue is closed.
func (p *Pipeline) OnDrain(fn func()) {
	p.onDrain = append(p.onDrain, fn)
}

// Deliver implements sourcev1.Deliverer by pushing onto the queue. It blocks
// while the queue is full.
func (p *Pipeline) Deliver(ctx context.Context, event tradev1.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.queue.Push(ctx, event)
}

// Run starts the workers and the scheduler, runs every source until it
// returns, then shuts down in order: the queue is closed, the workers drain
// it and exit, the scheduler exits, and the sink is closed. Cancelling ctx
// stops the sources; rows already queued are still processed.
//
// The returned error is the first source failure, joined with any sink
// close failure.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	// workers and scheduler outlive ctx so the queue can drain after an interrupt
	workCtx := context.WithoutCancel(ctx)

	p.logger.InfoContext(ctx, "starting pipeline",
		logger.Field{Key: "workers", Value: p.opts.Workers},
		logger.Field{Key: "queue_size", Value: p.queue.Cap()},
		logger.Field{Key: "tick_period", Value: p.opts.TickPeriod.String()},
		logger.Field{Key: "symbols", Value: p.aggregator.Symbols()},
	)

	for i := 0; i < p.opts.Workers; i++ {
		p.workers.Add(1)
		go p.work(workCtx, i)
	}
	go p.schedule(workCtx)

	srcErr := p.runSources(ctx)

	for _, fn := range p.onDrain {
		fn()
	}

	p.logger.InfoContext(ctx, "sources finished, draining queue",
		logger.Field{Key: "queue_depth", Value: p.queue.Len()},
	)
	p.queue.Close()

	p.workers.Wait()
	close(p.workersDone)
	<-p.scheduled

	var closeErr error
	if err := p.sink.Close(); err != nil {
		closeErr = errors.NewErrorDetailsWithObject("failed to close sink", string(errors.SinkCloseError), "sink", err)
		p.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "close_sink"})
	}

	p.logger.InfoContext(ctx, "pipeline stopped", statsFields(0, p.window.take(), p.queue.Stats(), p.queue.Len())...)
	return stderrors.Join(srcErr, closeErr)
}

func (p *Pipeline) runSources(ctx context.Context) error {
	var g errgroup.Group
	for _, src := range p.sources {
		src := src
		g.Go(func() error {
			srcCtx := util.WithSource(ctx, src.Name())
			p.logger.InfoContext(srcCtx, "source started")

			err := src.Run(srcCtx, p)
			if err != nil && !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, queue.ErrClosed) {
				p.logger.ErrorContext(srcCtx, err, logger.Field{Key: "action", Value: "run_source"})
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}

			p.logger.InfoContext(srcCtx, "source finished")
			return nil
		})
	}
	return g.Wait()
}

// WorkersFinished reports whether every worker has observed the end of the
// queue and exited.
func (p *Pipeline) WorkersFinished() bool {
	for i := range p.finished {
		if !p.finished[i].Load() {
			return false
		}
	}
	return true
}

// QueueStats exposes the queue's counters.
func (p *Pipeline) QueueStats() queue.Stats {
	return p.queue.Stats()
}
