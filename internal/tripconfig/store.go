package tripconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key is the fixed name the config blob is stored under.
const Key = "trip-config"

const dateLayout = "2006-01-02"

type Config struct {
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
	CoupleNames [2]string `json:"coupleNames"`
}

// Update holds the fields to overwrite; nil fields are kept.
type Update struct {
	StartDate   *string    `json:"startDate"`
	EndDate     *string    `json:"endDate"`
	CoupleNames *[2]string `json:"coupleNames"`
}

func (c Config) IsConfigured() bool {
	return c.StartDate != nil && *c.StartDate != "" && c.EndDate != nil && *c.EndDate != ""
}

// TotalDays counts both the first and the last day of the trip.
func (c Config) TotalDays() int {
	if !c.IsConfigured() {
		return 0
	}
	start, err1 := time.Parse(dateLayout, *c.StartDate)
	end, err2 := time.Parse(dateLayout, *c.EndDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// DaysRemaining counts whole days from now until the start date, never
// below zero.
func (c Config) DaysRemaining(now time.Time) int {
	if c.StartDate == nil || *c.StartDate == "" {
		return 0
	}
	start, err := time.ParseInLocation(dateLayout, *c.StartDate, now.Location())
	if err != nil {
		return 0
	}
	days := int(start.Sub(now) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// Store persists the config in Redis, or in memory when no client is given.
type Store struct {
	rdb   *redis.Client
	mu    sync.Mutex
	local Config
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Get(ctx context.Context) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(ctx)
}

// Set merges u into the stored config and returns the result.
func (s *Store) Set(ctx context.Context, u Update) (Config, error) {
	if err := validate(u); err != nil {
		return Config{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.getLocked(ctx)
	if err != nil {
		return Config{}, err
	}
	if u.StartDate != nil {
		cfg.StartDate = u.StartDate
	}
	if u.EndDate != nil {
		cfg.EndDate = u.EndDate
	}
	if u.CoupleNames != nil {
		cfg.CoupleNames = *u.CoupleNames
	}

	if s.rdb == nil {
		s.local = cfg
		return cfg, nil
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return Config{}, err
	}
	if err := s.rdb.Set(ctx, Key, raw, 0).Err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Counts reports the trip length and the days left before departure.
func (s *Store) Counts(ctx context.Context, now time.Time) (int, int, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return 0, 0, err
	}
	return cfg.TotalDays(), cfg.DaysRemaining(now), nil
}

func (s *Store) getLocked(ctx context.Context) (Config, error) {
	if s.rdb == nil {
		return s.local, nil
	}
	raw, err := s.rdb.Get(ctx, Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", Key, err)
	}
	return cfg, nil
}

func validate(u Update) error {
	for _, d := range []*string{u.StartDate, u.EndDate} {
		if d == nil || *d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, *d); err != nil {
			return fmt.Errorf("invalid date %q", *d)
		}
	}
	return nil
}
