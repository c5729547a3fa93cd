// Package props serves the wagerable proposition catalog. Props are an
// in-memory feed rather than a database table: the catalog is the pricing
// source of record at placement time, and each bet copies the prop fields
// it was priced against.
package props

import (
	"sync"
	"time"

	"github.com/pickage/platform/internal/domain"
)

// Catalog holds the current slate of props keyed by ID.
type Catalog struct {
	mu    sync.RWMutex
	props []domain.Prop
	byID  map[string]domain.Prop
}

// NewCatalog returns a catalog pre-loaded with the demo slate.
func NewCatalog() *Catalog {
	c := &Catalog{byID: make(map[string]domain.Prop)}
	c.Replace(seedProps(time.Now()))
	return c
}

// List returns the current slate in feed order.
func (c *Catalog) List() []domain.Prop {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Prop, len(c.props))
	copy(out, c.props)
	return out
}

// Get returns the prop with the given ID, or a not-found error.
func (c *Catalog) Get(id string) (*domain.Prop, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("prop", id)
	}
	return &p, nil
}

// Replace swaps the entire slate. Bets already placed keep the prop fields
// they copied, so replacing the slate never reprices open bets.
func (c *Catalog) Replace(slate []domain.Prop) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props = make([]domain.Prop, len(slate))
	copy(c.props, slate)
	c.byID = make(map[string]domain.Prop, len(slate))
	for _, p := range slate {
		c.byID[p.ID] = p
	}
}

// seedProps builds the demo slate with game dates on the upcoming Sunday.
func seedProps(now time.Time) []domain.Prop {
	gameDate := nextSunday(now)
	return []domain.Prop{
		{
			ID:         "prop-josh-allen-pass-yds",
			PlayerName: "Josh Allen",
			Team:       "BUF",
			Opponent:   "MIA",
			StatType:   "Passing Yards",
			Line:       267.5,
			OverOdds:   -110,
			UnderOdds:  -110,
			GameDate:   gameDate,
			Trend:      "3-1 O/U Last 4",
			Confidence: 78,
		},
		{
			ID:         "prop-derrick-henry-rush-yds",
			PlayerName: "Derrick Henry",
			Team:       "BAL",
			Opponent:   "PIT",
			StatType:   "Rushing Yards",
			Line:       89.5,
			OverOdds:   -115,
			UnderOdds:  -105,
			GameDate:   gameDate,
			Trend:      "Hit Over 6/8",
			Confidence: 85,
		},
		{
			ID:         "prop-tyreek-hill-rec-yds",
			PlayerName: "Tyreek Hill",
			Team:       "MIA",
			Opponent:   "BUF",
			StatType:   "Receiving Yards",
			Line:       74.5,
			OverOdds:   -108,
			UnderOdds:  -112,
			GameDate:   gameDate,
			Trend:      "Weather Alert",
			Confidence: 62,
		},
	}
}

// nextSunday returns the upcoming Sunday at 18:00 UTC. A Sunday "now" rolls
// to the following week so the slate always points at a future kickoff.
func nextSunday(now time.Time) time.Time {
	now = now.UTC()
	days := (int(time.Sunday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 18, 0, 0, 0, time.UTC)
}
