package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/maxaizer/jobs-alert/internal/logger"
	"github.com/maxaizer/jobs-alert/internal/metrics"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"sync/atomic"
	"time"
)

type PollState int32

const (
	Idle PollState = iota
	Running
)

func (s PollState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("PollState(%d)", int32(s))
	}
}

type cycleRunner interface {
	RunCycle(ctx context.Context) (CycleResult, error)
}

// Poller triggers a cycle every period, the first one a full period after Start.
// A tick arriving while a cycle is running is dropped, never queued.
type Poller struct {
	ctx    context.Context
	cron   *cron.Cron
	alerts cycleRunner
	period time.Duration
	state  atomic.Int32
}

func NewPoller(ctx context.Context, alerts cycleRunner, period time.Duration) (*Poller, error) {

	if alerts == nil {
		return nil, errors.New("alerts is nil")
	}
	if period < time.Second {
		return nil, fmt.Errorf("poll period must be at least a second, got %v", period)
	}

	cronLogger := cron.VerbosePrintfLogger(log.StandardLogger())
	p := &Poller{
		ctx:    ctx,
		cron:   cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.Recover(cronLogger))),
		alerts: alerts,
		period: period,
	}
	p.cron.Schedule(cron.Every(period), cron.FuncJob(p.tick))
	return p, nil
}

func (p *Poller) Start() {
	p.cron.Start()
	log.Infof("poller started, period: %v", p.period)
}

// Stop prevents new ticks and waits for a running cycle to finish.
func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
	log.Info("poller stopped")
}

func (p *Poller) State() PollState {
	return PollState(p.state.Load())
}

func (p *Poller) tick() {

	if !p.state.CompareAndSwap(int32(Idle), int32(Running)) {
		metrics.DroppedTicksCounter.Inc()
		log.Warn("poll tick dropped, previous cycle is still running")
		return
	}
	defer p.state.Store(int32(Idle))

	startTime := time.Now()
	log.Info("poll cycle started")

	result, err := p.alerts.RunCycle(p.ctx)

	executionTime := time.Since(startTime)
	metrics.PollCycleDuration.Observe(executionTime.Seconds())

	if err != nil {
		metrics.PollCyclesCounter.WithLabelValues("failed").Inc()
		log.WithField(logger.ErrorTypeField, cycleErrorType(err)).
			Errorf("poll cycle aborted after %v: %v", executionTime, err)
		return
	}

	if len(result.NewListings) == 0 {
		metrics.PollCyclesCounter.WithLabelValues("no_new").Inc()
	} else {
		metrics.PollCyclesCounter.WithLabelValues("notified").Inc()
	}
	log.Infof("poll cycle ended after %v, next one in %v", executionTime, p.period)
}

func cycleErrorType(err error) string {
	switch {
	case errors.Is(err, ErrFetch):
		return logger.ErrorTypeFeed
	case errors.Is(err, ErrPersistence):
		return logger.ErrorTypeStorage
	case errors.Is(err, ErrRecipients):
		return logger.ErrorTypeDb
	default:
		return "unknown"
	}
}
