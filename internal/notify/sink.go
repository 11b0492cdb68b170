package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sopiautomobile/lead-platform/internal/leads"
	"github.com/sopiautomobile/lead-platform/internal/observability/metrics"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

// Sink is one notification channel receiving a copy of a lead. Send must
// return rather than panic; the dispatcher treats any error as that
// channel's failure and never lets it affect the others.
type Sink interface {
	Name() string
	Send(ctx context.Context, lead *leads.Lead) error
}

// Result is the settled outcome of one sink for one lead.
type Result struct {
	Sink     string
	Err      error
	Duration time.Duration
}

const defaultSinkTimeout = 10 * time.Second

// Dispatcher fans a lead out to every configured sink concurrently and
// waits for all of them to settle. One sink's failure, timeout, or panic
// never cancels a sibling.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	logger  *logging.Logger
	metrics *metrics.LeadMetrics
}

// NewDispatcher creates a dispatcher over the given sinks. A zero timeout
// falls back to 10s per sink.
func NewDispatcher(sinks []Sink, timeout time.Duration, logger *logging.Logger, m *metrics.LeadMetrics) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultSinkTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		sinks:   sinks,
		timeout: timeout,
		logger:  logger,
		metrics: m,
	}
}

// Sinks returns the registered sink names.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, len(d.sinks))
	for i, s := range d.sinks {
		names[i] = s.Name()
	}
	return names
}

// Dispatch sends the lead to all sinks and returns every settled result.
func (d *Dispatcher) Dispatch(ctx context.Context, lead *leads.Lead) []Result {
	results := make([]Result, len(d.sinks))

	var wg sync.WaitGroup
	for i, sink := range d.sinks {
		wg.Add(1)
		go func(i int, sink Sink) {
			defer wg.Done()
			results[i] = d.send(ctx, sink, lead)
		}(i, sink)
	}
	wg.Wait()

	for _, res := range results {
		if res.Err != nil {
			d.metrics.ObserveSink(res.Sink, "error")
			d.logger.Error("notification sink failed",
				"sink", res.Sink,
				"error", res.Err,
				"lead_id", lead.ID,
				"duration_ms", res.Duration.Milliseconds(),
			)
			continue
		}
		d.metrics.ObserveSink(res.Sink, "ok")
		d.logger.Info("notification sink delivered",
			"sink", res.Sink,
			"lead_id", lead.ID,
			"duration_ms", res.Duration.Milliseconds(),
		)
	}
	return results
}

// Notify implements leads.Notifier.
func (d *Dispatcher) Notify(ctx context.Context, lead *leads.Lead) {
	d.Dispatch(ctx, lead)
}

func (d *Dispatcher) send(ctx context.Context, sink Sink, lead *leads.Lead) (res Result) {
	res.Sink = sink.Name()
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("notify: sink %s panicked: %v", sink.Name(), r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res.Err = sink.Send(ctx, lead)
	return res
}
