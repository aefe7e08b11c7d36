package finnhub

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	"github.com/muhammadchandra19/trade-aggregator/pkg/retry"
	sourcev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/source/v1"
)

const (
	defaultReadLimit        = 1 << 20
	defaultHandshakeTimeout = 10 * time.Second
	defaultReadTimeout      = time.Minute
)

// Config holds the settings for the Finnhub websocket feed.
type Config struct {
	URL              string        `env:"URL" envDefault:"wss://ws.finnhub.io" validate:"required,url"`
	Token            string        `env:"TOKEN"`
	Enabled          bool          `env:"ENABLED" envDefault:"false"`
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT" envDefault:"10s"`
	ReadTimeout      time.Duration `env:"READ_TIMEOUT" envDefault:"1m"`
	ReconnectBase    time.Duration `env:"RECONNECT_BASE" envDefault:"500ms"`
	ReconnectMax     time.Duration `env:"RECONNECT_MAX" envDefault:"30s"`
	// MaxReconnects bounds consecutive failed sessions; 0 retries forever.
	MaxReconnects int `env:"MAX_RECONNECTS" envDefault:"0"`
}

// Source streams trades for a fixed symbol set from the Finnhub websocket
// API, reconnecting with exponential backoff when the connection drops.
type Source struct {
	cfg      Config
	symbols  []string
	logger   logger.Interface
	validate *validator.Validate
	dialer   *websocket.Dialer
	backoff  retry.Backoff
}

// NewSource validates cfg and prepares a source for symbols.
func NewSource(cfg Config, symbols []string, log logger.Interface) (*Source, error) {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.ConfigValidationError), "finnhub")
	}
	if len(symbols) == 0 {
		return nil, errors.NewErrorDetails("no symbols to subscribe to", string(errors.ConfigValidationError), "symbols")
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}

	return &Source{
		cfg:      cfg,
		symbols:  symbols,
		logger:   log,
		validate: validate,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		backoff: retry.Backoff{Base: cfg.ReconnectBase, Max: cfg.ReconnectMax, Jitter: cfg.ReconnectBase},
	}, nil
}

func (s *Source) Name() string { return "finnhub" }

// Run keeps a session open until ctx is cancelled or the deliverer refuses
// trades. A nil error means a clean stop.
func (s *Source) Run(ctx context.Context, d sourcev1.Deliverer) error {
	failures := 0
	for {
		delivered, err := s.session(ctx, d)
		if ctx.Err() != nil {
			return nil
		}

		var deliverErr *deliverError
		if stderrors.As(err, &deliverErr) {
			return deliverErr.err
		}

		if delivered > 0 {
			failures = 0
		}
		failures++
		if s.cfg.MaxReconnects > 0 && failures > s.cfg.MaxReconnects {
			return errors.NewErrorDetailsWithObject(
				fmt.Sprintf("giving up after %d failed sessions: %v", failures-1, err),
				string(errors.SourceConnectionError),
				"finnhub",
				err,
			)
		}

		s.logger.WarnContext(ctx, "finnhub session ended, reconnecting",
			logger.Field{Key: "error", Value: fmt.Sprint(err)},
			logger.Field{Key: "attempt", Value: failures},
		)
		if err := s.backoff.Wait(ctx, failures-1); err != nil {
			return nil
		}
	}
}

// deliverError marks a failure of the pipeline rather than of the feed.
type deliverError struct{ err error }

func (e *deliverError) Error() string { return e.err.Error() }
func (e *deliverError) Unwrap() error { return e.err }

func (s *Source) endpoint() (string, error) {
	u, err := url.Parse(s.cfg.URL)
	if err != nil {
		return "", err
	}
	if s.cfg.Token != "" {
		q := u.Query()
		q.Set("token", s.cfg.Token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// session dials, subscribes and reads until the connection fails.
func (s *Source) session(ctx context.Context, d sourcev1.Deliverer) (int, error) {
	endpoint, err := s.endpoint()
	if err != nil {
		return 0, err
	}

	conn, resp, err := s.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return 0, fmt.Errorf("dial finnhub: %s: %w", resp.Status, err)
		}
		return 0, fmt.Errorf("dial finnhub: %w", err)
	}
	defer conn.Close()

	// unblock ReadMessage on cancellation
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	conn.SetReadLimit(defaultReadLimit)

	for _, symbol := range s.symbols {
		buf, err := json.Marshal(subscription{Type: "subscribe", Symbol: symbol})
		if err != nil {
			return 0, err
		}
		if err := conn.WriteMessage(websocket.TextMessage, buf); err != nil {
			return 0, fmt.Errorf("subscribe %s: %w", symbol, err)
		}
	}
	s.logger.InfoContext(ctx, "subscribed to finnhub", logger.Field{Key: "symbols", Value: s.symbols})

	delivered := 0
	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return delivered, err
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return delivered, err
		}

		n, err := s.handle(ctx, data, d)
		delivered += n
		if err != nil {
			return delivered, err
		}
	}
}

// handle decodes one frame and delivers its trades. Undecodable frames and
// invalid trades are logged and skipped.
func (s *Source) handle(ctx context.Context, data []byte, d sourcev1.Deliverer) (int, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.WarnContext(ctx, "undecodable finnhub frame",
			logger.Field{Key: "error_code", Value: string(errors.SourceDecodeError)},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return 0, nil
	}

	switch msg.Type {
	case messagePing:
		return 0, nil
	case messageError:
		s.logger.WarnContext(ctx, "finnhub reported an error", logger.Field{Key: "message", Value: msg.Error})
		return 0, nil
	case messageTrade:
	default:
		s.logger.DebugContext(ctx, "ignoring finnhub frame", logger.Field{Key: "type", Value: msg.Type})
		return 0, nil
	}

	delivered := 0
	for _, t := range msg.Data {
		if err := s.validate.Struct(t); err != nil {
			s.logger.WarnContext(ctx, "invalid finnhub trade",
				logger.Field{Key: "error_code", Value: string(errors.SourceDecodeError)},
				logger.Field{Key: "error", Value: err.Error()},
			)
			continue
		}
		if err := d.Deliver(ctx, t.toEvent()); err != nil {
			return delivered, &deliverError{err: err}
		}
		delivered++
	}
	return delivered, nil
}
