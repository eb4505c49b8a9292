// Package health aggregates readiness checks over the loaded datasets and
// the configured external services.
package health

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
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
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	datasets         DatasetReader
	searchConfigured bool
}

// New creates a Service. datasets can be nil.
func New(datasets DatasetReader, searchConfigured bool) *Service {
	return &Service{datasets: datasets, searchConfigured: searchConfigured}
}

// Check reports whether the datasets are loaded and whether semantic search
// is configured. The external services themselves are not probed: every
// request to them already fails loudly, and the inventory is static.
func (s *Service) Check() Report {
	checks := make(map[string]CheckResult)

	if s.datasets == nil || len(s.datasets.Owners()) == 0 {
		checks["datasets"] = CheckError
	} else {
		checks["datasets"] = CheckOK
	}

	if s.searchConfigured {
		checks["semantic_search"] = CheckOK
	} else {
		checks["semantic_search"] = CheckError
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
