package health

import "testing"

type mockDatasets struct {
	owners []string
}

func (m *mockDatasets) Owners() []string    { return m.owners }
func (m *mockDatasets) Consumers() []string { return nil }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDatasets{owners: []string{"billing"}}, true)

	report := svc.Check()
	if report.Status != Healthy {
		t.Errorf("status = %q, want %q", report.Status, Healthy)
	}
	if report.Checks["datasets"] != CheckOK {
		t.Errorf("datasets check = %q", report.Checks["datasets"])
	}
}

func TestCheck_EmptyDatasetsDegraded(t *testing.T) {
	svc := New(&mockDatasets{}, true)

	report := svc.Check()
	if report.Status != Degraded {
		t.Errorf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["datasets"] != CheckError {
		t.Errorf("datasets check = %q", report.Checks["datasets"])
	}
}

func TestCheck_SearchNotConfigured(t *testing.T) {
	svc := New(&mockDatasets{owners: []string{"billing"}}, false)

	report := svc.Check()
	if report.Status != Degraded {
		t.Errorf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["semantic_search"] != CheckError {
		t.Errorf("semantic_search check = %q", report.Checks["semantic_search"])
	}
}
