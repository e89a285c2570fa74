package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

const (
	DefaultProbeTimeout  = 2 * time.Second
	DefaultSlowThreshold = 500 * time.Millisecond
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// WorkerCounter lo cumple taskqueue.Broker (heartbeats vigentes).
type WorkerCounter interface {
	LiveWorkers(ctx context.Context) (int, error)
}

type Component struct {
	Status       Status `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Processes    *int   `json:"processes,omitempty"`
	Error        string `json:"error,omitempty"`
}

type Report struct {
	Status    Status               `json:"status"`
	Timestamp string               `json:"timestamp"`
	Services  map[string]Component `json:"services"`
}

type Checker struct {
	db      Pinger
	broker  Pinger
	workers WorkerCounter

	timeout time.Duration
	slow    time.Duration
	now     func() time.Time
}

func NewChecker(db, broker Pinger, workers WorkerCounter) *Checker {
	return &Checker{
		db:      db,
		broker:  broker,
		workers: workers,
		timeout: DefaultProbeTimeout,
		slow:    DefaultSlowThreshold,
		now:     time.Now,
	}
}

// Check corre los tres probes en paralelo. Un probe lento (> slow) queda degraded.
func (c *Checker) Check(ctx context.Context) Report {
	var (
		mu       sync.Mutex
		services = make(map[string]Component, 3)
	)
	set := func(name string, comp Component) {
		mu.Lock()
		services[name] = comp
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set("database", c.ping(gctx, c.db))
		return nil
	})
	g.Go(func() error {
		set("task_broker", c.ping(gctx, c.broker))
		return nil
	})
	g.Go(func() error {
		set("workers", c.countWorkers(gctx))
		return nil
	})
	_ = g.Wait()

	statuses := make([]Status, 0, len(services))
	for _, s := range services {
		statuses = append(statuses, s.Status)
	}

	return Report{
		Status:    Overall(statuses...),
		Timestamp: c.now().UTC().Format(time.RFC3339),
		Services:  services,
	}
}

// Overall: healthy si todos lo están, unhealthy si alguno lo está, si no degraded.
func Overall(statuses ...Status) Status {
	all := true
	for _, s := range statuses {
		if s == StatusUnhealthy {
			return StatusUnhealthy
		}
		if s != StatusHealthy {
			all = false
		}
	}
	if all {
		return StatusHealthy
	}
	return StatusDegraded
}

func (c *Checker) ping(ctx context.Context, p Pinger) Component {
	if p == nil {
		return Component{Status: StatusUnhealthy, Error: "not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := c.now()
	err := p.Ping(ctx)
	elapsed := c.now().Sub(start)
	if err != nil {
		return Component{Status: StatusUnhealthy, Error: err.Error()}
	}
	return Component{Status: c.byLatency(elapsed), ResponseTime: formatMillis(elapsed)}
}

func (c *Checker) countWorkers(ctx context.Context) Component {
	if c.workers == nil {
		return Component{Status: StatusUnhealthy, Error: "not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.workers.LiveWorkers(ctx)
	if err != nil {
		return Component{Status: StatusUnhealthy, Error: err.Error()}
	}
	comp := Component{Status: StatusHealthy, Processes: &n}
	if n == 0 {
		comp.Status = StatusUnhealthy
	}
	return comp
}

func (c *Checker) byLatency(d time.Duration) Status {
	if c.slow > 0 && d > c.slow {
		return StatusDegraded
	}
	return StatusHealthy
}

func formatMillis(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
}
