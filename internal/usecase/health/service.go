package health

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates at least one failing check.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	database Pinger
	cache    Pinger
}

// New creates a Service. cache can be nil.
func New(database, cache Pinger) *Service {
	return &Service{database: database, cache: cache}
}

// Check pings the database handle and the result cache backend concurrently.
// A gateway that was never connected reports the database check as failing.
func (s *Service) Check(ctx context.Context) Report {
	targets := map[string]Pinger{"database": s.database}
	if s.cache != nil {
		targets["cache"] = s.cache
	}

	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, len(targets))
	)
	var g errgroup.Group
	for name, p := range targets {
		g.Go(func() error {
			r := result(p.Ping(ctx))
			mu.Lock()
			checks[name] = r
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
