package history

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/homekit-mqtt/internal/accessory"
	"github.com/nerrad567/homekit-mqtt/internal/codec"
	"github.com/nerrad567/homekit-mqtt/internal/infrastructure/influxdb"
)

const (
	defaultBufferSize    = 256
	defaultWriteTimeout  = 5 * time.Second
	defaultPruneInterval = time.Hour
)

// Sink receives every recorded change as a telemetry sample.
// *influxdb.Client implements it.
type Sink interface {
	WriteSample(s influxdb.Sample)
}

// RecorderOptions configures a Recorder.
type RecorderOptions struct {
	// Repository stores values and the change log. Required.
	Repository Repository

	// Sink optionally exports changes as telemetry.
	Sink Sink

	// Logger is optional.
	Logger Logger

	// BufferSize bounds the queue between observers and the writer.
	// Changes arriving while it is full are dropped. Default 256.
	BufferSize int

	// Retention prunes the change log periodically. Zero disables pruning.
	Retention time.Duration

	// PruneInterval is the time between prunes. Default one hour.
	PruneInterval time.Duration
}

// RecorderStats holds recorder counters.
type RecorderStats struct {
	Recorded uint64
	Dropped  uint64
	Failures uint64
	Pruned   uint64
}

// Recorder observes characteristics and persists their changes on a
// background goroutine, so observers never block on the database.
//
// Thread Safety: All methods are safe for concurrent use.
type Recorder struct {
	repo   Repository
	sink   Sink
	logger Logger

	retention     time.Duration
	pruneInterval time.Duration

	mu      sync.RWMutex
	events  chan Change
	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}

	recorded atomic.Uint64
	dropped  atomic.Uint64
	failures atomic.Uint64
	pruned   atomic.Uint64
}

// NewRecorder creates a recorder. Changes observed before Start are queued.
func NewRecorder(opts RecorderOptions) *Recorder {
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	if opts.PruneInterval <= 0 {
		opts.PruneInterval = defaultPruneInterval
	}

	return &Recorder{
		repo:          opts.Repository,
		sink:          opts.Sink,
		logger:        opts.Logger,
		retention:     opts.Retention,
		pruneInterval: opts.PruneInterval,
		events:        make(chan Change, opts.BufferSize),
	}
}

// Track records every change of acc's characteristics outside the
// information service: local writes as SourceMQTT, remote writes as
// SourceHomeKit. Call it after the accessory has its final AID.
func (r *Recorder) Track(acc *accessory.Accessory) {
	for i, svc := range acc.Services {
		if i == 0 {
			continue
		}
		for _, c := range svc.Characteristics {
			base := Change{
				Key:         Key{AID: acc.AID, Service: i, Characteristic: c.Type.Name},
				Accessory:   acc.Name,
				ServiceType: svc.Type.Name,
			}
			c.Observe(func(v any) { r.enqueue(base, v, SourceMQTT) })
			c.OnRemoteWrite(func(v any) { r.enqueue(base, v, SourceHomeKit) })
		}
	}
}

func (r *Recorder) enqueue(base Change, v any, source string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	base.Value = v
	base.Source = source
	base.CreatedAt = time.Now()

	select {
	case r.events <- base:
	default:
		r.dropped.Add(1)
		r.logDebug("history queue full, dropping change", "key", base.Key.String())
	}
}

// Start runs the writer until ctx is cancelled or Stop is called.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started || r.closed {
		return ErrRecorderStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.started = true

	go r.run(runCtx, r.done)

	r.logInfo("history recorder started", "retention", r.retention.String())
	return nil
}

func (r *Recorder) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	var prune <-chan time.Time
	if r.retention > 0 {
		ticker := time.NewTicker(r.pruneInterval)
		defer ticker.Stop()
		prune = ticker.C
		r.prune(ctx)
	}

	for {
		select {
		case c, ok := <-r.events:
			if !ok {
				return
			}
			r.write(ctx, c)
		case <-prune:
			r.prune(ctx)
		case <-ctx.Done():
			r.drain()
			return
		}
	}
}

// drain writes whatever is queued once the run context is gone.
func (r *Recorder) drain() {
	for {
		select {
		case c, ok := <-r.events:
			if !ok {
				return
			}
			r.write(context.Background(), c)
		default:
			return
		}
	}
}

func (r *Recorder) write(ctx context.Context, c Change) {
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	writeCtx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	if err := r.repo.Record(writeCtx, c); err != nil {
		r.failures.Add(1)
		r.logWarn("recording change failed", "key", c.Key.String(), "error", err)
		return
	}
	r.recorded.Add(1)

	if r.sink != nil {
		r.sink.WriteSample(influxdb.Sample{
			AID:            c.AID,
			Accessory:      c.Accessory,
			Service:        c.ServiceType,
			Characteristic: c.Characteristic,
			Source:         c.Source,
			Value:          c.Value,
			Time:           c.CreatedAt,
		})
	}
}

func (r *Recorder) prune(ctx context.Context) {
	n, err := r.repo.Prune(ctx, r.retention)
	if err != nil {
		r.logWarn("pruning history failed", "error", err)
		return
	}
	r.pruned.Add(uint64(n)) //nolint:gosec // RowsAffected is never negative
	if n > 0 {
		r.logDebug("pruned history", "rows", n)
	}
}

// Stop stops accepting changes, writes those already queued and waits for
// the writer to exit. Safe to call more than once or without Start.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.events)
	done := r.done
	r.mu.Unlock()

	if done != nil {
		<-done
	}
	r.logInfo("history recorder stopped", "recorded", r.recorded.Load(), "dropped", r.dropped.Load())
}

// Stats returns the recorder counters.
func (r *Recorder) Stats() RecorderStats {
	return RecorderStats{
		Recorded: r.recorded.Load(),
		Dropped:  r.dropped.Load(),
		Failures: r.failures.Load(),
		Pruned:   r.pruned.Load(),
	}
}

// Restore seeds characteristics with their last known values. Run it
// before the accessories are registered so controllers and the broker see
// the restored values from the start. Accessories without an AID are
// skipped; values that no longer convert to the characteristic's format
// are logged and skipped.
//
// Returns:
//   - int: Number of characteristics restored
//   - error: If the stored values cannot be read
func Restore(ctx context.Context, repo Repository, accs []*accessory.Accessory, logger Logger) (int, error) {
	latest, err := repo.Latest(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, acc := range accs {
		if acc.AID == 0 {
			continue
		}
		for i, svc := range acc.Services {
			if i == 0 {
				continue
			}
			for _, c := range svc.Characteristics {
				stored, ok := latest[Key{AID: acc.AID, Service: i, Characteristic: c.Type.Name}]
				if !ok {
					continue
				}
				v, err := codec.Decode(c.Type.Format, stored)
				if err != nil {
					if logger != nil {
						logger.Warn("cannot restore value", "accessory", acc.Name, "characteristic", c.Type.Name, "error", err)
					}
					continue
				}
				c.SetValue(v)
				restored++
			}
		}
	}
	return restored, nil
}

func (r *Recorder) logDebug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Recorder) logInfo(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

func (r *Recorder) logWarn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
