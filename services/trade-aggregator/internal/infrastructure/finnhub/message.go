package finnhub

import (
	"github.com/goccy/go-json"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
)

const (
	messageTrade = "trade"
	messagePing  = "ping"
	messageError = "error"
)

// subscription is sent once per symbol after connecting.
type subscription struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}

// message is the envelope of every frame the feed sends.
//
//	{"type":"trade","data":[{"p":7296.89,"s":"BINANCE:BTCUSDT","t":1575526691134,"v":0.011467}]}
type message struct {
	Type  string  `json:"type"`
	Data  []trade `json:"data"`
	Error string  `json:"msg"`
}

// trade keeps numbers as json.Number so they reach the transaction log
// exactly as the feed sent them.
type trade struct {
	Price     json.Number `json:"p" validate:"required"`
	Symbol    string      `json:"s" validate:"required"`
	Timestamp json.Number `json:"t" validate:"required"`
	Volume    json.Number `json:"v"`
}

func (t trade) toEvent() tradev1.Event {
	volume := t.Volume.String()
	if volume == "" {
		volume = "0"
	}
	return tradev1.Event{
		Symbol:    t.Symbol,
		Price:     t.Price.String(),
		Volume:    volume,
		Timestamp: t.Timestamp.String(),
	}
}
