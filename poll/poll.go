// Package poll provides an efficient facility to manage a set of
// periodic polls.  At any point in time, only one time.Timer exists
// to implement all managed polls.  A Polls instance is designed to
// manage a few hundred polls (and not many thousands of polls).
//
// A poll fires on a fixed interval or on a cron schedule, and its
// work is performed in a new goroutine, so it's kinda okay for that
// work to block.
package poll

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorhill/cronexpr"
)

var (
	NotFound       = errors.New("not found")
	TooMany        = errors.New("too many")
	IdExists       = errors.New("id exists")
	NotRunning     = errors.New("not running")
	AlreadyRunning = errors.New("already running")
	BadSchedule    = errors.New("bad schedule")
)

const (
	notRunning = int64(iota)
	running
)

// Poll represents some work to be done repeatedly.
type Poll struct {
	// Id is a unique identifier across all polls managed by a
	// given Polls instance.
	Id string `json:"id"`

	// Every is the poll interval.  Ignored when Cron is set.
	Every time.Duration `json:"every"`

	// Cron, when not empty, is a cron expression giving the
	// schedule instead of Every.
	Cron string `json:"cron,omitempty"`

	// F is the work to be performed at each firing.
	//
	// The poll is passed to this function to make it a little
	// easier -- maybe -- to write more general-purpose work
	// functions.
	F func(context.Context, *Poll) `json:"-"`

	// Fired is the time F was last invoked.
	Fired time.Time `json:"fired,omitempty"`

	cron *cronexpr.Expression
	next time.Time
}

// schedule computes the poll's next firing time.
func (p *Poll) schedule(now time.Time) {
	if p.cron != nil {
		p.next = p.cron.Next(now)
		return
	}
	p.next = now.Add(p.Every)
}

// Polls is a managed set of Poll instances.
//
// You need to Run the Polls before calling Add.
type Polls struct {
	Max   int  `json:"max"`
	Debug bool `json:"-"`

	sync.Mutex
	polls   map[string]*Poll
	up      chan bool
	running int64
	ready   chan bool
}

// NewPolls makes a new instance with the given maximum number of
// managed polls.
func NewPolls(max int) (*Polls, error) {
	return &Polls{
		Max:   max,
		polls: make(map[string]*Poll, 8),
		up:    make(chan bool, 32),
		ready: make(chan bool, 1),
	}, nil
}

// Run starts the Polls process in the current goroutine.  This method
// must be running to use the Polls instance.
func (ps *Polls) Run(ctx context.Context) error {
	if ps.IsRunning() {
		return AlreadyRunning
	}

	atomic.StoreInt64(&ps.running, running)
	ps.ready <- true
LOOP:
	for {
		due := ps.soonest()

		// With no polls, just wait for the set to change.
		d := time.Hour
		if due != nil {
			d = due.next.Sub(time.Now())
			if d < 0 {
				d = 0
			}
			ps.debugf("poll %s due in %s", due.Id, d)
		}

		timer := time.NewTimer(d)

		select {
		case <-ctx.Done():
			timer.Stop()
			break LOOP
		case <-ps.up:
			// The set changed; recompute the soonest poll.
			timer.Stop()
		case <-timer.C:
			if due == nil {
				continue
			}
			ps.Lock()
			// The poll may have been removed while we
			// were waiting.
			if p, have := ps.polls[due.Id]; have && p == due {
				now := time.Now()
				due.Fired = now
				due.schedule(now)
				ps.debugf("poll %s firing", due.Id)
				go due.F(ctx, due)
			}
			ps.Unlock()
		}
	}

	select {
	case <-ps.ready:
	}
	atomic.StoreInt64(&ps.running, notRunning)

	return nil
}

// soonest returns the poll with the earliest next firing time.
func (ps *Polls) soonest() *Poll {
	ps.Lock()
	var due *Poll
	for _, p := range ps.polls {
		if due == nil || p.next.Before(due.next) {
			due = p
		}
	}
	ps.Unlock()
	return due
}

// IsRunning tries to report whether the Run method is currently
// executing.
func (ps *Polls) IsRunning() bool {
	return atomic.LoadInt64(&ps.running) == running
}

// Wait blocks until Run is running (or the timeout arrives).
func (ps *Polls) Wait(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	select {
	case <-timer.C:
		return false
	case <-ps.ready:
		return true
	}
}

// Add adds the given poll to the Polls instance and schedules its
// first firing (one interval out, or at the cron expression's next
// time).
func (ps *Polls) Add(p *Poll) error {
	ps.debugf("add %s every %s cron '%s'", p.Id, p.Every, p.Cron)

	if !ps.IsRunning() {
		return NotRunning
	}

	if p.Cron != "" {
		c, err := cronexpr.Parse(p.Cron)
		if err != nil {
			return BadSchedule
		}
		p.cron = c
	} else if p.Every <= 0 {
		return BadSchedule
	}

	ps.Lock()

	var err error
	switch {
	case len(ps.polls) == ps.Max:
		err = TooMany
	default:
		if _, have := ps.polls[p.Id]; have {
			err = IdExists
			break
		}
		p.schedule(time.Now())
		ps.polls[p.Id] = p
	}

	ps.Unlock()

	if err == nil {
		ps.up <- true
	}

	return err
}

// Rem removes the given poll from the Polls instance.
func (ps *Polls) Rem(id string) error {
	ps.debugf("rem %s", id)

	if !ps.IsRunning() {
		return NotRunning
	}

	ps.Lock()
	_, have := ps.polls[id]
	delete(ps.polls, id)
	ps.Unlock()

	if !have {
		return NotFound
	}

	ps.up <- true

	return nil
}

func (ps *Polls) debugf(format string, args ...interface{}) {
	if ps.Debug {
		log.Printf("debug "+format, args...)
	}
}
