// Package results keeps the append-only history of finished runs, one log per
// mode, on top of a kv.Store.
package results

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/naveenspark/reflex/pkg/domain"
	"github.com/naveenspark/reflex/pkg/kv"
)

// Keys names the blobs the store reads and writes.
type Keys struct {
	Solo    string `yaml:"solo"`
	Duo     string `yaml:"duo"`
	Profile string `yaml:"profile"`
}

// DefaultKeys are the keys earlier versions of the app wrote.
func DefaultKeys() Keys {
	return Keys{
		Solo:    "pm_stats_solo_v1",
		Duo:     "pm_stats_duo_v1",
		Profile: "pm_profile_v1",
	}
}

// Store is the result log for both modes. Appends are read-modify-write and
// are not safe for concurrent callers; the game calls them at most once per
// finished run.
type Store struct {
	kv   kv.Store
	keys Keys
	now  func() int64
}

// New returns a Store over s using keys.
func New(s kv.Store, keys Keys) *Store {
	return &Store{kv: s, keys: keys, now: nowMillis}
}

// AppendSolo appends one solo time. On error nothing was recorded.
func (s *Store) AppendSolo(ctx context.Context, elapsedSeconds float64) error {
	list, err := s.LoadSolo(ctx)
	if err != nil {
		return fmt.Errorf("results.AppendSolo: %w", err)
	}
	list = append(list, elapsedSeconds)
	if err := s.write(ctx, s.keys.Solo, list); err != nil {
		return fmt.Errorf("results.AppendSolo: %w", err)
	}
	return nil
}

// AppendDuo appends one finished duo pair. A zero RecordedAtMs is stamped
// with the current time.
func (s *Store) AppendDuo(ctx context.Context, entry domain.DuoResult) error {
	list, err := s.LoadDuo(ctx)
	if err != nil {
		return fmt.Errorf("results.AppendDuo: %w", err)
	}
	if entry.RecordedAtMs == 0 {
		entry.RecordedAtMs = s.now()
	}
	list = append(list, entry)
	if err := s.write(ctx, s.keys.Duo, list); err != nil {
		return fmt.Errorf("results.AppendDuo: %w", err)
	}
	return nil
}

// LoadSolo returns the solo log in insertion order. A missing or corrupt blob
// reads as an empty log.
func (s *Store) LoadSolo(ctx context.Context) ([]float64, error) {
	list := []float64{}
	if err := s.read(ctx, s.keys.Solo, &list); err != nil {
		return nil, fmt.Errorf("results.LoadSolo: %w", err)
	}
	if list == nil {
		list = []float64{}
	}
	return list, nil
}

// LoadDuo returns the duo log in insertion order.
func (s *Store) LoadDuo(ctx context.Context) ([]domain.DuoResult, error) {
	list := []domain.DuoResult{}
	if err := s.read(ctx, s.keys.Duo, &list); err != nil {
		return nil, fmt.Errorf("results.LoadDuo: %w", err)
	}
	if list == nil {
		list = []domain.DuoResult{}
	}
	return list, nil
}

// Times flattens the log for mode into plain seconds. For duo both players'
// times are included, player 1 first.
func (s *Store) Times(ctx context.Context, mode domain.Mode) ([]float64, error) {
	switch mode {
	case domain.ModeSolo:
		return s.LoadSolo(ctx)
	case domain.ModeDuo:
		list, err := s.LoadDuo(ctx)
		if err != nil {
			return nil, err
		}
		all := make([]float64, 0, 2*len(list))
		for _, r := range list {
			all = append(all, r.ElapsedSeconds1, r.ElapsedSeconds2)
		}
		return all, nil
	}
	return nil, fmt.Errorf("results.Times: unsupported mode %s", mode)
}

// Average is the arithmetic mean of every time in the log for mode. Duo pools
// both players into one mean. An empty log averages to 0.
func (s *Store) Average(ctx context.Context, mode domain.Mode) (float64, error) {
	all, err := s.Times(ctx, mode)
	if err != nil {
		return 0, err
	}
	return Mean(all), nil
}

// Best is the fastest recorded time for mode, or 0 for an empty log.
func (s *Store) Best(ctx context.Context, mode domain.Mode) (float64, error) {
	all, err := s.Times(ctx, mode)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, nil
	}
	return slices.Min(all), nil
}

// Clear empties the log for mode. The other mode's log is untouched.
func (s *Store) Clear(ctx context.Context, mode domain.Mode) error {
	var key string
	switch mode {
	case domain.ModeSolo:
		key = s.keys.Solo
	case domain.ModeDuo:
		key = s.keys.Duo
	default:
		return fmt.Errorf("results.Clear: unsupported mode %s", mode)
	}
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("results.Clear: %w", err)
	}
	return nil
}

// HistoryEntry is one stored run. N numbers runs from 1 in the order they
// were recorded.
type HistoryEntry struct {
	N       int
	Seconds float64          // solo runs
	Duo     domain.DuoResult // duo runs
}

// History returns the log for mode as entries, newest first.
func (s *Store) History(ctx context.Context, mode domain.Mode) ([]HistoryEntry, error) {
	switch mode {
	case domain.ModeSolo:
		list, err := s.LoadSolo(ctx)
		if err != nil {
			return nil, err
		}
		return SoloHistory(list), nil
	case domain.ModeDuo:
		list, err := s.LoadDuo(ctx)
		if err != nil {
			return nil, err
		}
		return DuoHistory(list), nil
	}
	return nil, fmt.Errorf("results.History: unsupported mode %s", mode)
}

// SoloHistory numbers a solo log and orders it newest first.
func SoloHistory(list []float64) []HistoryEntry {
	out := make([]HistoryEntry, len(list))
	for i, v := range list {
		out[len(list)-1-i] = HistoryEntry{N: i + 1, Seconds: v}
	}
	return out
}

// DuoHistory numbers a duo log and orders it newest first.
func DuoHistory(list []domain.DuoResult) []HistoryEntry {
	out := make([]HistoryEntry, len(list))
	for i, d := range list {
		out[len(list)-1-i] = HistoryEntry{N: i + 1, Duo: d}
	}
	return out
}

// LoadProfile reads the player profile. Missing or malformed profiles read as
// the zero Profile.
func (s *Store) LoadProfile(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	if err := s.read(ctx, s.keys.Profile, &p); err != nil {
		return domain.Profile{}, fmt.Errorf("results.LoadProfile: %w", err)
	}
	return p, nil
}

// Mean returns the arithmetic mean of xs, or 0 when xs is empty.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// read decodes the blob at key into out. Only a storage failure is an error;
// an absent key leaves out untouched and bad JSON resets it to its zero value.
func (s *Store) read(ctx context.Context, key string, out any) error {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("results: discarding malformed blob %q: %v", key, err)
		resetZero(out)
	}
	return nil
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(data))
}

func resetZero(out any) {
	switch v := out.(type) {
	case *[]float64:
		*v = []float64{}
	case *[]domain.DuoResult:
		*v = []domain.DuoResult{}
	case *domain.Profile:
		*v = domain.Profile{}
	}
}

func nowMillis() int64 { return time.Now().UnixMilli() }
