// Package clock keeps the clock board: one reading per city, fetched from a
// remote time source and advanced locally once per tick. The board is a
// display convenience and is not clock synchronization.
package clock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

// DefaultTick is how far, and how often, the board advances locally.
const DefaultTick = time.Second

// TimeSource answers the current time of a zone.
type TimeSource interface {
	Now(ctx context.Context, zone string) (types.ZoneTime, error)
}

// Board holds the latest reading of every city.
type Board struct {
	src    TimeSource
	cities []types.City
	log    *slog.Logger

	// mu guards readings. Sync and Tick are not otherwise ordered: whichever
	// lands last wins.
	mu       sync.Mutex
	readings []types.CityTime
}

// NewBoard creates a board for cities. A nil logger discards output.
func NewBoard(src TimeSource, cities []types.City, log *slog.Logger) *Board {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Board{
		src:    src,
		cities: append([]types.City(nil), cities...),
		log:    log,
	}
}

// Sync fetches every city concurrently and waits for all of them to
// settle. A failed city becomes an error marker; Sync itself never fails.
// The new readings replace the board state and are returned.
func (b *Board) Sync(ctx context.Context) []types.CityTime {
	log := b.log.With("sync_id", uuid.NewString())
	results := make([]types.CityTime, len(b.cities))

	var g errgroup.Group
	g.SetLimit(max(len(b.cities), 1))
	for i, city := range b.cities {
		g.Go(func() error {
			results[i] = b.fetch(ctx, log, city)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	log.Info("clock board synced", "cities", len(results), "failed", failed)

	b.mu.Lock()
	b.readings = results
	b.mu.Unlock()
	return append([]types.CityTime(nil), results...)
}

// fetch reads one city. Panics in the source are contained to the city.
func (b *Board) fetch(ctx context.Context, log *slog.Logger, city types.City) (reading types.CityTime) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("%w: panic: %v", types.ErrTimeUnavailable, p)
			log.Error("fetching time", "city", city.Name, "zone", city.Timezone, "err", err)
			reading = types.CityTime{City: city, Err: err}
		}
	}()

	zt, err := b.src.Now(ctx, city.Timezone)
	if err != nil {
		log.Error("fetching time", "city", city.Name, "zone", city.Timezone, "err", err)
		return types.CityTime{City: city, Err: err}
	}
	return types.CityTime{City: city, Time: zt.UTC, Timezone: zt.Timezone}
}

// Tick advances every successful reading by d. Error markers stay as they
// are.
func (b *Board) Tick(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.readings {
		b.readings[i] = b.readings[i].Advance(d)
	}
}

// Readings returns a copy of the current readings in city order.
func (b *Board) Readings() []types.CityTime {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]types.CityTime(nil), b.readings...)
}

// Reading returns the reading at position i (zero-based) of the board.
func (b *Board) Reading(i int) (types.CityTime, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i < 0 || i >= len(b.readings) {
		return types.CityTime{}, false
	}
	return b.readings[i], true
}

// Run advances the board by interval on every tick and hands the new
// readings to render, until ctx is done. The ticker is stopped on return.
func (b *Board) Run(ctx context.Context, interval time.Duration, render func([]types.CityTime)) {
	if interval <= 0 {
		interval = DefaultTick
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Tick(interval)
			if render != nil {
				render(b.Readings())
			}
		}
	}
}
