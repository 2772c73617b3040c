package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"innkeeper/internal/models"

	"github.com/rs/zerolog"
)

// ArrivalLister returns the bookings checking in on a given day.
type ArrivalLister interface {
	ListArrivals(ctx context.Context, day time.Time) ([]models.Booking, error)
}

// Announcer posts operational messages to the manager chat.
type Announcer interface {
	Announce(ctx context.Context, text string)
}

// DigestConfig controls when the daily arrivals digest is sent.
type DigestConfig struct {
	// Hour (0-23) of the local day when the digest goes out.
	Hour int
	// CheckInterval is how often the loop checks whether it is time.
	CheckInterval time.Duration
}

// DefaultDigestConfig sends the digest at 09:00, checking every minute.
func DefaultDigestConfig() DigestConfig {
	return DigestConfig{Hour: 9, CheckInterval: time.Minute}
}

// ArrivalsDigest posts a once-a-day summary of the guests expected to
// check in, so the front desk starts the morning with the full list.
type ArrivalsDigest struct {
	arrivals  ArrivalLister
	announcer Announcer
	config    DigestConfig
	logger    zerolog.Logger

	mu          sync.Mutex
	lastRunDate string
}

func NewArrivalsDigest(arrivals ArrivalLister, announcer Announcer, cfg DigestConfig, logger zerolog.Logger) *ArrivalsDigest {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	return &ArrivalsDigest{
		arrivals:  arrivals,
		announcer: announcer,
		config:    cfg,
		logger:    logger.With().Str("component", "digest").Logger(),
	}
}

// Start runs the digest loop until the context is cancelled.
func (d *ArrivalsDigest) Start(ctx context.Context) {
	d.logger.Info().Int("hour", d.config.Hour).Msg("Arrivals digest started")

	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("Arrivals digest stopped")
			return
		case now := <-ticker.C:
			d.checkAndRun(ctx, now)
		}
	}
}

func (d *ArrivalsDigest) checkAndRun(ctx context.Context, now time.Time) {
	today := now.Format(models.DateLayout)

	d.mu.Lock()
	alreadyRan := d.lastRunDate == today
	d.mu.Unlock()

	if alreadyRan || now.Hour() != d.config.Hour {
		return
	}

	d.mu.Lock()
	d.lastRunDate = today
	d.mu.Unlock()

	if err := d.RunOnce(ctx, now); err != nil {
		d.logger.Error().Err(err).Msg("Arrivals digest run failed")
	}
}

// RunOnce composes and sends the digest for the given day. Days with no
// arrivals send nothing.
func (d *ArrivalsDigest) RunOnce(ctx context.Context, day time.Time) error {
	arrivals, err := d.arrivals.ListArrivals(ctx, day)
	if err != nil {
		return fmt.Errorf("list arrivals: %w", err)
	}
	if len(arrivals) == 0 {
		d.logger.Debug().Str("day", day.Format(models.DateLayout)).Msg("No arrivals, digest skipped")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Arrivals for %s (%d):\n", day.Format(models.DateLayout), len(arrivals))
	for i := range arrivals {
		a := &arrivals[i]
		fmt.Fprintf(&b, "• Room %s — %s (until %s)\n",
			a.RoomNumber, a.ClientName, a.CheckOut.Format(models.DateLayout))
	}

	d.announcer.Announce(ctx, b.String())
	d.logger.Info().Int("arrivals", len(arrivals)).Msg("Arrivals digest sent")
	return nil
}
