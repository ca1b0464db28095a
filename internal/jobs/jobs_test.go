package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/alysesue/bookings-api-sub000/internal/model"
)

type fakePruner struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakePruner) DeleteEndedBefore(_ context.Context, t time.Time) (int64, error) {
	f.cutoff = t
	return f.deleted, f.err
}

type fakeEvents struct {
	events []*model.Event
}

func (f *fakeEvents) Create(_ context.Context, e *model.Event) error {
	f.events = append(f.events, e)
	return nil
}

func newJob(p *fakePruner, ev *fakeEvents) *PruneSlotsJob {
	j := NewPruneSlotsJob(p, ev, 48*time.Hour, zap.NewNop())
	j.now = func() time.Time { return time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC) }
	return j
}

func TestPruneSlotsJob_Run(t *testing.T) {
	p := &fakePruner{deleted: 3}
	ev := &fakeEvents{}

	if err := newJob(p, ev).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := time.Date(2025, 1, 8, 3, 0, 0, 0, time.UTC); !p.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, p.cutoff)
	}
	if len(ev.events) != 1 || ev.events[0].EventType != model.EventTypeSlotsPruned {
		t.Fatalf("expected one slots_pruned event, got %+v", ev.events)
	}

	var details struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.Unmarshal(ev.events[0].Details, &details); err != nil || details.Deleted != 3 {
		t.Fatalf("unexpected details %s (%v)", ev.events[0].Details, err)
	}
}

func TestPruneSlotsJob_NothingDeleted(t *testing.T) {
	ev := &fakeEvents{}
	if err := newJob(&fakePruner{}, ev).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(ev.events) != 0 {
		t.Fatalf("no event expected when nothing was deleted")
	}
}

func TestPruneSlotsJob_Error(t *testing.T) {
	boom := errors.New("db is gone")
	err := newJob(&fakePruner{err: boom}, &fakeEvents{}).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

type countingJob struct {
	calls int
	err   error
	ctx   context.Context
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) error {
	j.calls++
	j.ctx = ctx
	return j.err
}

func TestScheduler_Add(t *testing.T) {
	s := NewScheduler(zap.NewNop(), time.Second)

	if err := s.Add("0 3 * * *", &countingJob{}); err != nil {
		t.Fatalf("valid expression rejected: %v", err)
	}
	if err := s.Add("every night", &countingJob{}); err == nil {
		t.Fatalf("expected error for invalid expression")
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
}

func TestScheduler_RunAndStop(t *testing.T) {
	s := NewScheduler(zap.NewNop(), time.Second)
	job := &countingJob{err: errors.New("ignored")}

	// Ошибка задачи только логируется.
	s.run(job)
	if job.calls != 1 {
		t.Fatalf("expected job to run once, got %d", job.calls)
	}
	if _, ok := job.ctx.Deadline(); !ok {
		t.Fatalf("expected job context to carry a timeout")
	}

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if s.ctx.Err() == nil {
		t.Fatalf("expected base context to be cancelled on stop")
	}
}
