package health

import (
	"context"
	"maps"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an embedding provider is failing; plain commands still work.
	Degraded Status = "degraded"
	// Unhealthy indicates the storage is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const (
	checkStorage         = "storage"
	checkEmbeddingPrefix = "embedding:"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	providers map[string]EmbeddingChecker
}

// New creates a Service. providers maps an embedding provider name to its checker and may be empty.
func New(db DBPinger, providers map[string]EmbeddingChecker) *Service {
	return &Service{db: db, providers: maps.Clone(providers)}
}

// Check runs health checks against storage and every embedding provider.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.providers)+1)
	status := Healthy

	checks[checkStorage] = result(s.db.Ping(ctx))
	if checks[checkStorage] == CheckError {
		status = Unhealthy
	}

	for name, p := range s.providers {
		checks[checkEmbeddingPrefix+name] = result(p.HealthCheck(ctx))
		if checks[checkEmbeddingPrefix+name] == CheckError && status == Healthy {
			status = Degraded
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
