package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Event struct {
	ActorID   *uuid.UUID
	Action    string
	Subject   string
	SubjectID *uuid.UUID
	Metadata  any
}

// Recorder accepts audit events without blocking the caller.
type Recorder interface {
	Dispatch(ev Event)
}

// Writer persists one event.
type Writer interface {
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	writer Writer
	log    *zap.Logger
	queue  chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(writer Writer, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		log:    log,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.writer.Write(ctx, ev); err != nil {
			d.log.Error("audit write failed", zap.String("action", ev.Action), zap.Error(err))
		}
		cancel()
	}
}

// Dispatch enqueues ev; a full queue drops it, audit must never fail a request.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains queued events. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}
