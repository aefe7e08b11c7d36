// Package csvlog writes the transaction, candlestick and moving-average logs
// as per-symbol CSV files.
package csvlog

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/util"
	candlestickv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
)

var (
	transactionHeader = []string{"Price", "Symbol", "Timestamp", "Volume", "Posttimestamp"}
	candlestickHeader = []string{"Open", "Close", "Low", "High", "Volume", "TotalPrice", "NumTransactions", "Mean", "Timestamp"}
	averageHeader     = []string{"Price", "Total", "Count", "Timestamp"}
)

type file struct {
	f *os.File
	w *csv.Writer
}

func openFile(path string, header []string) (*file, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	return &file{f: f, w: w}, w.Error()
}

func (f *file) write(record []string, flush bool) error {
	if err := f.w.Write(record); err != nil {
		return err
	}
	if flush {
		f.w.Flush()
		return f.w.Error()
	}
	return nil
}

func (f *file) close() error {
	f.w.Flush()
	return stderrors.Join(f.w.Error(), f.f.Close())
}

type symbolFiles struct {
	mu           sync.Mutex
	transactions *file
	candlesticks *file
	averages     *file
}

// Sink writes logs_<slug>.csv, logs_<slug>_candlestick.csv and
// logs_<slug>_ma.csv for every symbol into one directory. Files for the
// configured symbols are created up front; any other symbol gets its files on
// first use.
type Sink struct {
	dir string

	mu     sync.Mutex
	files  map[string]*symbolFiles
	closed bool
}

// NewSink creates dir if needed and truncates the files of every symbol.
func NewSink(dir string, symbols []string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create csv directory: %w", err)
	}

	s := &Sink{dir: dir, files: make(map[string]*symbolFiles, len(symbols))}
	for _, symbol := range symbols {
		if _, err := s.filesFor(symbol); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Slug turns a symbol into a file-name fragment: "BINANCE:BTCUSDT" becomes
// "binance_btcusdt".
func Slug(symbol string) string {
	var sb strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(symbol) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && sb.Len() > 0 {
			sb.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.TrimSuffix(sb.String(), "_")
	if out == "" {
		return "unnamed"
	}
	return out
}

func (s *Sink) filesFor(symbol string) (*symbolFiles, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.NewErrorDetails("csv sink is closed", string(errors.SinkWriteError), "sink")
	}
	if sf, ok := s.files[symbol]; ok {
		return sf, nil
	}

	base := filepath.Join(s.dir, "logs_"+Slug(symbol))
	sf := &symbolFiles{}
	var err error
	if sf.transactions, err = openFile(base+".csv", transactionHeader); err != nil {
		return nil, fmt.Errorf("failed to open transaction log for %s: %w", symbol, err)
	}
	if sf.candlesticks, err = openFile(base+"_candlestick.csv", candlestickHeader); err != nil {
		sf.transactions.close()
		return nil, fmt.Errorf("failed to open candlestick log for %s: %w", symbol, err)
	}
	if sf.averages, err = openFile(base+"_ma.csv", averageHeader); err != nil {
		sf.transactions.close()
		sf.candlesticks.close()
		return nil, fmt.Errorf("failed to open moving average log for %s: %w", symbol, err)
	}

	s.files[symbol] = sf
	return sf, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func millis(t time.Time) string {
	return strconv.FormatUint(util.Millis(t), 10)
}

func writeErr(err error, symbol string) error {
	return errors.NewErrorDetailsWithObject(err.Error(), string(errors.SinkWriteError), "csv", symbol)
}

// WriteTransaction appends the verbatim trade. Rows reach disk at the next
// window boundary or on Close.
func (s *Sink) WriteTransaction(_ context.Context, event tradev1.Event, receivedAt time.Time) error {
	sf, err := s.filesFor(event.Symbol)
	if err != nil {
		return err
	}

	sf.mu.Lock()
	defer sf.mu.Unlock()
	if err := sf.transactions.write([]string{event.Price, event.Symbol, event.Timestamp, event.Volume, millis(receivedAt)}, false); err != nil {
		return writeErr(err, event.Symbol)
	}
	return nil
}

func (s *Sink) WriteCandlestick(_ context.Context, symbol string, c candlestickv1.Snapshot, flushedAt time.Time) error {
	sf, err := s.filesFor(symbol)
	if err != nil {
		return err
	}

	sf.mu.Lock()
	defer sf.mu.Unlock()
	record := []string{
		formatFloat(c.Open),
		formatFloat(c.Close),
		formatFloat(c.Min),
		formatFloat(c.Max),
		formatFloat(c.Volume),
		formatFloat(c.PriceSum),
		strconv.FormatUint(c.Count, 10),
		formatFloat(c.Mean),
		millis(flushedAt),
	}
	if err := sf.candlesticks.write(record, true); err != nil {
		return writeErr(err, symbol)
	}
	return nil
}

func (s *Sink) WriteMovingAverage(_ context.Context, symbol string, a movingaveragev1.Snapshot, flushedAt time.Time) error {
	sf, err := s.filesFor(symbol)
	if err != nil {
		return err
	}

	sf.mu.Lock()
	defer sf.mu.Unlock()
	record := []string{formatFloat(a.Value), formatFloat(a.Total), strconv.Itoa(a.Count), millis(flushedAt)}
	if err := sf.averages.write(record, true); err != nil {
		return writeErr(err, symbol)
	}
	return nil
}

// MarkWindow ends the minute in every transaction log with a blank line and
// flushes it.
func (s *Sink) MarkWindow(context.Context, time.Time) error {
	var errs []error
	for symbol, sf := range s.snapshot() {
		sf.mu.Lock()
		if err := sf.transactions.write([]string{}, true); err != nil {
			errs = append(errs, writeErr(err, symbol))
		}
		sf.mu.Unlock()
	}
	return stderrors.Join(errs...)
}

// Close flushes and closes every file. Writes after Close fail.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var errs []error
	for _, sf := range s.snapshot() {
		sf.mu.Lock()
		errs = append(errs, sf.transactions.close(), sf.candlesticks.close(), sf.averages.close())
		sf.mu.Unlock()
	}
	if err := stderrors.Join(errs...); err != nil {
		return errors.NewErrorDetailsWithObject(err.Error(), string(errors.SinkCloseError), "csv", s.dir)
	}
	return nil
}

func (s *Sink) snapshot() map[string]*symbolFiles {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*symbolFiles, len(s.files))
	for k, v := range s.files {
		out[k] = v
	}
	return out
}
