package tradev1

import (
	"fmt"
	"time"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/util"
	"github.com/shopspring/decimal"
)

// ErrMalformedTrade is returned by Parse when a numeric field is not a number.
var ErrMalformedTrade = errors.NewErrorDetails("malformed trade", string(errors.MalformedTradeError), "")

// Event is one trade exactly as an ingestion source received it. The numeric
// fields stay textual so the transaction log can record them verbatim even
// when they fail to parse.
type Event struct {
	Symbol    string
	Price     string
	Volume    string
	Timestamp string // milliseconds since epoch
}

// Trade is a parsed market trade.
type Trade struct {
	Symbol     string
	Price      float64
	Volume     float64
	ObservedAt uint64 // milliseconds since epoch
}

// ObservedTime returns ObservedAt as a time.Time.
func (t Trade) ObservedTime() time.Time {
	return util.UnixMilli(t.ObservedAt)
}

// Parse converts the textual fields of the event into a Trade.
func (e Event) Parse() (Trade, error) {
	price, err := parseNumber(e.Price, "price")
	if err != nil {
		return Trade{}, err
	}

	volume, err := parseNumber(e.Volume, "volume")
	if err != nil {
		return Trade{}, err
	}

	ts, err := decimal.NewFromString(e.Timestamp)
	if err != nil || ts.IsNegative() || !ts.IsInteger() {
		return Trade{}, malformed("timestamp", e.Timestamp)
	}

	return Trade{
		Symbol:     e.Symbol,
		Price:      price,
		Volume:     volume,
		ObservedAt: uint64(ts.IntPart()),
	}, nil
}

func parseNumber(raw, field string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, malformed(field, raw)
	}
	f, _ := d.Float64()
	return f, nil
}

func malformed(field, raw string) error {
	return errors.NewErrorDetails(
		fmt.Sprintf("trade %s %q is not a number", field, raw),
		string(errors.MalformedTradeError),
		field,
	)
}

// NewEvent renders a parsed trade back into an Event, formatting numbers the
// shortest way that round-trips.
func NewEvent(t Trade) Event {
	return Event{
		Symbol:    t.Symbol,
		Price:     decimal.NewFromFloat(t.Price).String(),
		Volume:    decimal.NewFromFloat(t.Volume).String(),
		Timestamp: fmt.Sprintf("%d", t.ObservedAt),
	}
}
