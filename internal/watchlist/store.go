// Package watchlist persists per-symbol alert settings in a single flat
// JSON file, read and rewritten wholesale on every change. Concurrent
// writers from separate processes are last-writer-wins; within a process
// the store is mutex-guarded.
package watchlist

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Threshold bounds for per-symbol RSI settings.
const (
	MinOversold   = 0
	MaxOversold   = 50
	MinOverbought = 50
	MaxOverbought = 100
)

// ErrNotFound is returned for operations on an unknown ticker.
var ErrNotFound = errors.New("watchlist: ticker not found")

// Entry holds the alert settings for one stock. Ticker is the unique,
// uppercase key.
type Entry struct {
	Ticker        string `json:"ticker"`
	Name          string `json:"name,omitempty"`
	RSIOversold   int    `json:"rsi_oversold"`
	RSIOverbought int    `json:"rsi_overbought"`
	CrossEnabled  bool   `json:"cross_enabled"`
}

// NewEntry returns an entry with default thresholds for the ticker.
func NewEntry(ticker, name string) Entry {
	return Entry{
		Ticker:        strings.ToUpper(strings.TrimSpace(ticker)),
		Name:          name,
		RSIOversold:   30,
		RSIOverbought: 70,
		CrossEnabled:  true,
	}
}

func (e Entry) validate() error {
	if e.Ticker == "" {
		return errors.New("watchlist: empty ticker")
	}
	if e.RSIOversold < MinOversold || e.RSIOversold > MaxOversold {
		return fmt.Errorf("watchlist: oversold threshold %d outside [%d,%d]", e.RSIOversold, MinOversold, MaxOversold)
	}
	if e.RSIOverbought < MinOverbought || e.RSIOverbought > MaxOverbought {
		return fmt.Errorf("watchlist: overbought threshold %d outside [%d,%d]", e.RSIOverbought, MinOverbought, MaxOverbought)
	}
	return nil
}

// fileFormat is the on-disk JSON shape: {"stocks": [ ... ]}.
type fileFormat struct {
	Stocks []Entry `json:"stocks"`
}

// Store is the file-backed watchlist.
type Store struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
}

// Open loads the watchlist at path. A missing file yields an empty store.
// A legacy CSV watchlist (a `ticker` header column, no per-symbol
// settings) is accepted and loaded as defaults-only entries.
func Open(path string) (*Store, error) {
	s := &Store{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("watchlist: read %s: %w", path, err)
	}

	if filepath.Ext(path) == ".csv" || looksLikeCSV(data) {
		if err := s.loadCSV(data); err != nil {
			return nil, err
		}
		return s, nil
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("watchlist: parse %s: %w", path, err)
	}
	for _, e := range f.Stocks {
		e.Ticker = strings.ToUpper(e.Ticker)
		s.entries[e.Ticker] = e
	}
	return s, nil
}

func looksLikeCSV(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return trimmed != "" && trimmed[0] != '{' && trimmed[0] != '['
}

func (s *Store) loadCSV(data []byte) error {
	reader := csv.NewReader(strings.NewReader(string(data)))
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("watchlist: parse legacy csv: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	tickerCol := 0
	for i, h := range records[0] {
		if strings.EqualFold(strings.TrimSpace(h), "ticker") {
			tickerCol = i
			break
		}
	}
	for _, row := range records[1:] {
		if tickerCol >= len(row) {
			continue
		}
		ticker := strings.ToUpper(strings.TrimSpace(row[tickerCol]))
		if ticker == "" {
			continue
		}
		s.entries[ticker] = NewEntry(ticker, "")
	}
	return nil
}

// save rewrites the whole file. Caller holds the lock.
func (s *Store) save() error {
	f := fileFormat{Stocks: s.sorted()}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("watchlist: marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("watchlist: mkdir %s: %w", dir, err)
		}
	}
	// A legacy CSV store is migrated to JSON in place on first write.
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("watchlist: write %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) sorted() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// Add inserts or replaces an entry.
func (s *Store) Add(e Entry) error {
	e.Ticker = strings.ToUpper(strings.TrimSpace(e.Ticker))
	if err := e.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Ticker] = e
	return s.save()
}

// Update applies fn to an existing entry and persists the result.
func (s *Store) Update(ticker string, fn func(*Entry)) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[ticker]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, ticker)
	}
	fn(&e)
	e.Ticker = ticker // the key is immutable
	if err := e.validate(); err != nil {
		return err
	}
	s.entries[ticker] = e
	return s.save()
}

// Remove deletes an entry.
func (s *Store) Remove(ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[ticker]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, ticker)
	}
	delete(s.entries, ticker)
	return s.save()
}

// Get returns the entry for ticker.
func (s *Store) Get(ticker string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[strings.ToUpper(strings.TrimSpace(ticker))]
	return e, ok
}

// Contains reports whether ticker is in the watchlist.
func (s *Store) Contains(ticker string) bool {
	_, ok := s.Get(ticker)
	return ok
}

// List returns all entries sorted by ticker.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted()
}

// Tickers returns all ticker symbols sorted.
func (s *Store) Tickers() []string {
	entries := s.List()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Ticker
	}
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
