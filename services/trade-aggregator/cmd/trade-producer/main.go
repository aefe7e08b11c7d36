package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/muhammadchandra19/trade-aggregator/pkg/util"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
	"github.com/segmentio/kafka-go"
)

// generateTrades creates count random-walk trades spread over symbols.
func generateTrades(symbols []string, count int, basePrice, spread float64, now time.Time) []tradev1.Message {
	prices := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		prices[s] = basePrice
	}

	trades := make([]tradev1.Message, count)
	for i := range trades {
		symbol := symbols[rand.IntN(len(symbols))]

		// Random walk within +/- spread of the previous price
		price := prices[symbol] + (rand.Float64()-0.5)*spread
		if price <= 0 {
			price = basePrice
		}
		price = float64(int(price*100)) / 100 // Round to 2 decimal places
		prices[symbol] = price

		volume := float64(int((0.01+rand.Float64()*9.99)*1000)) / 1000

		trades[i] = tradev1.NewMessage(tradev1.Trade{
			Symbol:     symbol,
			Price:      price,
			Volume:     volume,
			ObservedAt: util.Millis(now),
		})
	}
	return trades
}

func main() {
	var (
		brokers   = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic     = flag.String("topic", "trades", "Kafka topic name")
		symbols   = flag.String("symbols", "MSFT,AMZN,BINANCE:BTCUSDT,IC MARKETS:1", "Symbols to trade (comma-separated)")
		delay     = flag.Duration("delay", 100*time.Millisecond, "Delay between sending trades")
		count     = flag.Int("count", 1000, "Number of trades to generate")
		basePrice = flag.Float64("base-price", 100, "Starting price of every symbol")
		spread    = flag.Float64("price-spread", 1, "Maximum price move between two trades")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	trades := generateTrades(strings.Split(*symbols, ","), *count, *basePrice, *spread, time.Now())
	log.Printf("Sending %d trades to Kafka broker: %s, topic: %s", len(trades), *brokers, *topic)

	sent := 0
	for i, trade := range trades {
		// Stamp at send time so aggregator latency stays meaningful
		trade.Timestamp = json.Number(strconv.FormatUint(util.Millis(time.Now()), 10))

		value, err := json.Marshal(trade)
		if err != nil {
			log.Printf("Failed to marshal trade %d: %v", i+1, err)
			continue
		}

		if err := writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(trade.Symbol),
			Value: value,
			Time:  time.Now(),
		}); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("Failed to send trade %d (%s): %v", i+1, trade.Symbol, err)
			continue
		}
		sent++

		if sent%100 == 0 || i == len(trades)-1 {
			log.Printf("Sent trade %d/%d: %s %s x %s", i+1, len(trades), trade.Symbol, trade.Price, trade.Volume)
		}

		select {
		case <-ctx.Done():
		case <-time.After(*delay):
		}
		if ctx.Err() != nil {
			break
		}
	}

	log.Printf("Sent %d of %d trades", sent, len(trades))
}
