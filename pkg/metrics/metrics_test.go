package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type fakeCounter struct {
	counts map[string]int
	err    error
}

func (f fakeCounter) CountBySource(ctx context.Context) (map[string]int, error) {
	return f.counts, f.err
}

func gaugeValue(t *testing.T, source string) float64 {
	t.Helper()
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "iface_registered_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "source" && l.GetValue() == source {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("no gauge for source %q", source)
	return 0
}

func TestStartInterfaceGauge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartInterfaceGauge(ctx, fakeCounter{counts: map[string]int{"builtin": 1, "file": 3}}, time.Hour, nil)
	if got := gaugeValue(t, "builtin"); got != 1 {
		t.Fatalf("builtin = %v", got)
	}
	if got := gaugeValue(t, "file"); got != 3 {
		t.Fatalf("file = %v", got)
	}
}

func TestStartInterfaceGaugeError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var got error
	boom := errors.New("boom")
	StartInterfaceGauge(ctx, fakeCounter{err: boom}, time.Hour, func(err error) { got = err })
	if !errors.Is(got, boom) {
		t.Fatalf("onErr got %v", got)
	}
}
