package aggregator

import (
	"context"
	"net"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/grpclib/health"
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	"github.com/muhammadchandra19/trade-aggregator/pkg/questdb"
	"github.com/muhammadchandra19/trade-aggregator/pkg/redis"
	"github.com/muhammadchandra19/trade-aggregator/pkg/util"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/app/pipeline"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/bootstrap"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/pkg/config"
)

// Aggregator is the trade aggregator process: the pipeline, its sinks and
// the health endpoint.
type Aggregator struct {
	Pipeline *pipeline.Pipeline
	Health   *health.Server
	Config   config.Config

	logger    *logger.Logger
	bootstrap bootstrap.Bootstrap
	db        questdb.QuestDBClient
	redis     redis.Client
}

// InitAggregator connects the enabled backends and assembles the pipeline.
func InitAggregator(ctx context.Context, cfg config.Config) (*Aggregator, error) {
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		return nil, err
	}

	a := &Aggregator{
		Config: cfg,
		Health: health.NewServer(),
		logger: log,
	}

	if err := a.initDB(ctx); err != nil {
		a.Stop()
		return nil, err
	}
	if err := a.initRedis(ctx); err != nil {
		a.Stop()
		return nil, err
	}

	b := &bootstrap.Bootstrap{}
	a.bootstrap, err = b.Init(bootstrap.BootstrapConfig{
		Config:  cfg,
		QuestDB: a.db,
		Redis:   a.redis,
		Logger:  log,
	})
	if err != nil {
		a.Stop()
		return nil, err
	}

	a.Pipeline, err = pipeline.New(pipeline.Dependencies{
		Aggregator: a.bootstrap.Usecase.Aggregator,
		Tracker:    a.bootstrap.Usecase.Tracker,
		Sink:       a.bootstrap.Sink.FanOut,
		Sources:    a.bootstrap.Sources,
		Logger:     log,
	}, &pipeline.Options{
		QueueSize:       cfg.Pipeline.QueueSize,
		Workers:         cfg.Pipeline.Workers,
		TickPeriod:      cfg.Pipeline.TickPeriod,
		FlushOnShutdown: cfg.Pipeline.FlushOnShutdown,
	})
	if err != nil {
		_ = a.bootstrap.Sink.FanOut.Close()
		a.Stop()
		return nil, err
	}

	a.Pipeline.OnDrain(func() {
		a.Health.Draining(cfg.App.Name)
	})

	return a, nil
}

// Run serves health checks and runs the pipeline until every source has
// finished or ctx is cancelled and the queue is drained.
func (a *Aggregator) Run(ctx context.Context) error {
	ctx = util.WithRunID(ctx, "")

	if a.Config.GRPC.Enabled {
		lis, err := net.Listen("tcp", a.Config.GRPC.Address)
		if err != nil {
			return errors.NewTracer("failed to listen for health checks").Wrap(err)
		}

		healthCtx, stopHealth := context.WithCancel(context.WithoutCancel(ctx))
		defer stopHealth()

		served := a.Health.Serve(healthCtx, lis)
		a.Health.InitService(a.Config.App.Name)
		go func() {
			if err, ok := <-served; ok && err != nil {
				a.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "serve_health"})
			}
		}()
	}

	a.logger.InfoContext(ctx, "starting trade aggregator",
		logger.Field{Key: "symbols", Value: a.Config.Pipeline.Symbols},
		logger.Field{Key: "sources", Value: len(a.bootstrap.Sources)},
		logger.Field{Key: "sinks", Value: a.bootstrap.Sink.FanOut.Len()},
	)

	return a.Pipeline.Run(ctx)
}

// Stop releases the database and cache connections. Sinks are closed by
// the pipeline.
func (a *Aggregator) Stop() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		if err := a.redis.Disconnect(context.Background()); err != nil {
			a.logger.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
		}
	}
	_ = a.logger.Sync()
}

func (a *Aggregator) initDB(ctx context.Context) error {
	if !a.Config.Sink.QuestDBEnabled {
		return nil
	}

	questdbClient, err := questdb.NewClient(ctx, a.Config.QuestDB)
	if err != nil {
		a.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "init_db",
		})
		return err
	}

	a.db = questdbClient
	return nil
}

func (a *Aggregator) initRedis(ctx context.Context) error {
	if !a.Config.Sink.RedisEnabled {
		return nil
	}

	client := redis.NewClient(a.logger, &a.Config.Redis)
	if err := client.Connect(ctx); err != nil {
		a.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "init_redis",
		})
		if errors.ErrorCodeEquals(err, string(errors.RedisConfigError)) || !client.Reconnect(ctx) {
			return err
		}
	}

	a.redis = client
	return nil
}
