package tradev1

import "github.com/goccy/go-json"

// Message is the JSON form of a trade published on the trades topic.
// Numbers keep their literal text so Event stays byte-for-byte faithful.
type Message struct {
	Symbol    string      `json:"symbol" validate:"required"`
	Price     json.Number `json:"price" validate:"required"`
	Volume    json.Number `json:"volume"`
	Timestamp json.Number `json:"timestamp" validate:"required"`
}

// Event converts the message into an unparsed trade event.
func (m Message) Event() Event {
	volume := m.Volume.String()
	if volume == "" {
		volume = "0"
	}
	return Event{
		Symbol:    m.Symbol,
		Price:     m.Price.String(),
		Volume:    volume,
		Timestamp: m.Timestamp.String(),
	}
}

// NewMessage builds the wire form of a parsed trade.
func NewMessage(t Trade) Message {
	e := NewEvent(t)
	return Message{
		Symbol:    e.Symbol,
		Price:     json.Number(e.Price),
		Volume:    json.Number(e.Volume),
		Timestamp: json.Number(e.Timestamp),
	}
}
