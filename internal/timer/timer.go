package timer

import (
	"sync"
	"time"

	"github.com/hasheddev/studytrack/internal/broadcast"
)

// State is the timer's lifecycle phase.
type State string

const (
	StateIdle    State = "idle"
	StateStarted State = "started"
	StateStopped State = "stopped"
)

// Snapshot is the consistent view published to observers on every tick and
// after every action. The clock strings and elapsed seconds always agree
// with each other within a single Snapshot.
type Snapshot struct {
	Hours       string
	Minutes     string
	Seconds     string
	State       State
	Elapsed     int64 // seconds
	SubjectID   int64
	SubjectName string
}

// tickSource abstracts time.Ticker so tests can drive ticks manually.
type tickSource interface {
	Chan() <-chan time.Time
	Stop()
}

type realTicker struct{ *time.Ticker }

func (t realTicker) Chan() <-chan time.Time { return t.C }

// Timer is the single process-wide study session timer. All state lives in
// one run-loop goroutine: actions and ticks serialize through a single
// select, so no two ticks interleave and observers only ever see complete
// snapshots. It survives any number of subscribers coming and going and is
// torn down only by Close.
type Timer struct {
	interval  time.Duration
	newTicker func(time.Duration) tickSource

	cmds    chan command
	done    chan struct{}
	closing sync.Once

	updates *broadcast.Broadcast[Snapshot]
}

type cmdKind int

const (
	cmdStart cmdKind = iota
	cmdStop
	cmdCancel
	cmdSetSubject
)

type command struct {
	kind        cmdKind
	subjectID   int64
	subjectName string
	reply       chan Snapshot
}

// New creates a timer that ticks once per wall-clock second.
func New() *Timer {
	return newTimer(time.Second, func(d time.Duration) tickSource {
		return realTicker{time.NewTicker(d)}
	})
}

func newTimer(interval time.Duration, newTicker func(time.Duration) tickSource) *Timer {
	t := &Timer{
		interval:  interval,
		newTicker: newTicker,
		cmds:      make(chan command),
		done:      make(chan struct{}),
		updates:   broadcast.New[Snapshot](),
	}

	// Seed the idle snapshot before the run loop exists, so Snapshot and
	// Subscribe see the initial state no matter how early they are called.
	var acc Accumulator
	h, m, s := acc.Clock()
	t.updates.Publish(Snapshot{Hours: h, Minutes: m, Seconds: s, State: StateIdle})

	go t.run()
	return t
}

func (t *Timer) run() {
	var (
		acc         Accumulator
		state       = StateIdle
		subjectID   int64
		subjectName string
		ticker      tickSource
		tick        <-chan time.Time
	)

	snapshot := func() Snapshot {
		h, m, s := acc.Clock()
		return Snapshot{
			Hours:       h,
			Minutes:     m,
			Seconds:     s,
			State:       state,
			Elapsed:     acc.Seconds(),
			SubjectID:   subjectID,
			SubjectName: subjectName,
		}
	}
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tick = nil
		}
	}

	for {
		select {
		case <-t.done:
			stopTicker()
			return

		case <-tick:
			acc.Add()
			t.updates.Publish(snapshot())

		case cmd := <-t.cmds:
			switch cmd.kind {
			case cmdStart:
				if state != StateStarted {
					state = StateStarted
					ticker = t.newTicker(t.interval)
					tick = ticker.Chan()
				}
			case cmdStop:
				// The accumulator keeps its value; Start resumes from it.
				if state == StateStarted {
					stopTicker()
					state = StateStopped
				}
			case cmdCancel:
				// Always succeeds, from any state. A stray tick already
				// buffered in the old ticker is discarded with it.
				stopTicker()
				acc.Reset()
				state = StateIdle
			case cmdSetSubject:
				subjectID = cmd.subjectID
				subjectName = cmd.subjectName
			}
			snap := snapshot()
			t.updates.Publish(snap)
			cmd.reply <- snap
		}
	}
}

func (t *Timer) send(cmd command) Snapshot {
	cmd.reply = make(chan Snapshot, 1)
	select {
	case t.cmds <- cmd:
		return <-cmd.reply
	case <-t.done:
		snap, _ := t.updates.Latest()
		return snap
	}
}

// Start begins or resumes ticking. Starting an already started timer is a
// no-op.
func (t *Timer) Start() Snapshot {
	return t.send(command{kind: cmdStart})
}

// Stop halts ticking and freezes the accumulated duration.
func (t *Timer) Stop() Snapshot {
	return t.send(command{kind: cmdStop})
}

// Cancel halts ticking, zeroes the accumulator and returns to idle. It is
// idempotent.
func (t *Timer) Cancel() Snapshot {
	return t.send(command{kind: cmdCancel})
}

// SetSubject associates a subject with the in-progress session. The timer
// itself does not gate Start on a subject being set; that check belongs to
// the caller.
func (t *Timer) SetSubject(id int64, name string) Snapshot {
	return t.send(command{kind: cmdSetSubject, subjectID: id, subjectName: name})
}

// Snapshot returns the latest published state.
func (t *Timer) Snapshot() Snapshot {
	snap, _ := t.updates.Latest()
	return snap
}

// Subscribe registers an observer with replay-latest semantics. The
// returned cancel function must be called when the observer is done.
func (t *Timer) Subscribe() (<-chan Snapshot, func()) {
	return t.updates.Subscribe()
}

// Close stops the run loop. The timer cannot be reused afterwards.
func (t *Timer) Close() {
	t.closing.Do(func() { close(t.done) })
}
