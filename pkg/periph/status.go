package periph

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// StatusSink receives periodic status emissions. Transport is owned by
// the surrounding system.
type StatusSink interface {
	PublishStatus(ctx context.Context, status LogStatus, pins []PinState) error
}

// PublishStatusFunc is the func form of StatusSink.
type PublishStatusFunc func(ctx context.Context, status LogStatus, pins []PinState) error

// PublishStatus implements StatusSink.
func (f PublishStatusFunc) PublishStatus(ctx context.Context, status LogStatus, pins []PinState) error {
	return f(ctx, status, pins)
}

// StatusPublisher samples the registry on a fixed cadence and hands the
// current status record and digital I/O snapshot to a sink. It carries no
// history: a restart simply resumes sampling current state.
type StatusPublisher struct {
	Interval time.Duration
	Registry *Registry
	Sink     StatusSink
}

// DefaultStatusInterval is used when Interval is unset.
const DefaultStatusInterval = time.Second

// Name implements Named.
func (p *StatusPublisher) Name() string {
	return "status-publisher"
}

// Run implements Runnable.
func (p *StatusPublisher) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.Sink.PublishStatus(ctx, p.Registry.Status(), p.Registry.Pins()); err != nil {
				glog.Warningf("status publish failed: %v", err)
			}
		}
	}
}
