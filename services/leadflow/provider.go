package leadflow

import (
	"lead_funnel_go/services"
	"sync"
)

// Provider is the state shared between the flow and the page around it:
// whether the form is open, and a stats version that bumps after each
// completed submission so count displays know to re-fetch.
type Provider struct {
	mu    sync.Mutex
	open  bool
	stats *services.StatsNotifier
}

func NewProvider() *Provider {
	return &Provider{stats: services.NewStatsNotifier()}
}

func (p *Provider) Open() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
}

func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

func (p *Provider) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// RefreshStats bumps the stats version and notifies subscribers
func (p *Provider) RefreshStats() {
	p.stats.Notify()
}

func (p *Provider) StatsVersion() uint64 {
	return p.stats.Version()
}

// OnStatsRefresh registers fn to run after every RefreshStats
func (p *Provider) OnStatsRefresh(fn func(version uint64)) {
	p.stats.Subscribe(fn)
}
