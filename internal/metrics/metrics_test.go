package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	m.ObserveRPC("/birthdays.v1.GroupService/CreateGroup", "ok", 0.01)
	m.MembershipChanged("join", "ok")
	m.BirthdaysMatched("public", 3)
}

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRPC("/birthdays.v1.GroupService/JoinGroup", "already_exists", 0.002)
	m.MembershipChanged("join", "conflict")
	m.MembershipChanged("join", "conflict")
	m.BirthdaysMatched("private", 2)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	got := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				got[mf.GetName()] += c.GetValue()
			}
			if h := metric.GetHistogram(); h != nil {
				got[mf.GetName()] += float64(h.GetSampleCount())
			}
		}
	}

	want := map[string]float64{
		"birthdays_rpc_requests_total":       1,
		"birthdays_rpc_duration_seconds":     1,
		"birthdays_membership_changes_total": 2,
		"birthdays_birthday_matches_total":   2,
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s: expected %v, got %v", name, v, got[name])
		}
	}
}
