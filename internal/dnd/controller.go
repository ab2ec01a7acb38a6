package dnd

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultLongPress = 500 * time.Millisecond
	// DefaultMoveSlop is how far (in cells, per axis) the pointer may wander while a
	// press is pending before the press is treated as a scroll/click instead.
	DefaultMoveSlop = 0
)

type Config struct {
	LongPress time.Duration
	MoveSlop  int
}

func (c Config) withDefaults() Config {
	if c.LongPress <= 0 {
		c.LongPress = DefaultLongPress
	}
	if c.MoveSlop < 0 {
		c.MoveSlop = DefaultMoveSlop
	}
	return c
}

// Host is the rendering side of a drag. DragStarted and DragEnded bracket every
// session; DragEnded runs on all exit paths.
type Host interface {
	// DragStarted installs global pointer capture and suppresses text selection
	// and the cursor.
	DragStarted(e Entity)
	// DragEnded restores what DragStarted changed.
	DragEnded(e Entity)
}

// Committer applies a resolved target to storage.
type Committer interface {
	Commit(ctx context.Context, e Entity, t Target) (Outcome, error)
}

// Token identifies one armed long-press. The host schedules LongPress(token)
// after token.Delay.
type Token struct {
	Seq   uint64
	Delay time.Duration
}

// Release describes what a pointer-up ended.
type Release struct {
	// Click is set when the press ended before the long-press fired; the host should
	// run its normal click behaviour for Source.
	Click   bool
	Source  Source
	Entity  Entity
	Target  Target
	Outcome Outcome
}

// Controller runs the press → drag → release lifecycle for one board. It owns the
// State and is driven entirely by the host's event loop.
type Controller struct {
	cfg    Config
	state  State
	layout Layout
	host   Host
	commit Committer
	log    logrus.FieldLogger
	seq    uint64
}

func NewController(cfg Config, layout Layout, host Host, commit Committer, log logrus.FieldLogger) *Controller {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Controller{
		cfg:    cfg.withDefaults(),
		layout: layout,
		host:   host,
		commit: commit,
		log:    log.WithField("component", "dnd"),
	}
}

func (c *Controller) State() *State { return &c.state }

func (c *Controller) Config() Config { return c.cfg }

// PointerDown arms a long-press for src. Only primary-button presses while idle
// are accepted.
func (c *Controller) PointerDown(src Source, p Point, primary bool) (Token, bool) {
	if !primary || c.state.Phase() != PhaseIdle {
		return Token{}, false
	}
	c.seq++
	c.state.arm(press{seq: c.seq, source: src, start: p})
	c.log.WithFields(logrus.Fields{"kind": src.Entity.Kind, "id": src.Entity.ID}).Debug("press armed")
	return Token{Seq: c.seq, Delay: c.cfg.LongPress}, true
}

// LongPress fires the timer armed by PointerDown. A stale token (the press was
// already released, moved away or superseded) is ignored.
func (c *Controller) LongPress(tok Token) bool {
	if c.state.Phase() != PhasePending || c.state.pending.seq != tok.Seq {
		return false
	}
	c.begin(c.state.pending.start)
	return true
}

// ContextMenu is the touch long-press proxy: it starts a pending press right away.
func (c *Controller) ContextMenu() bool {
	if c.state.Phase() != PhasePending {
		return false
	}
	c.begin(c.state.pending.start)
	return true
}

func (c *Controller) begin(p Point) {
	src := c.state.pending.source
	clone := ""
	if src.Clone != nil {
		clone = src.Clone()
	}
	c.state.begin(Session{
		Entity:  src.Entity,
		Clone:   clone,
		Offset:  p.Sub(src.Bounds.Min()),
		Pointer: p,
		Target:  Target{ContainerID: src.Entity.ContainerID, Index: src.Entity.Index},
		Over:    true,
	})
	if c.host != nil {
		c.host.DragStarted(src.Entity)
	}
	c.log.WithFields(logrus.Fields{"kind": src.Entity.Kind, "id": src.Entity.ID, "container": src.Entity.ContainerID, "index": src.Entity.Index}).Debug("drag started")
}

// PointerMove feeds a pointer position. While pending, movement past the slop
// cancels the press. While dragging, the target is re-resolved; the return value
// reports whether it changed.
func (c *Controller) PointerMove(p Point) bool {
	switch c.state.Phase() {
	case PhasePending:
		start := c.state.pending.start
		if abs(p.X-start.X) > c.cfg.MoveSlop || abs(p.Y-start.Y) > c.cfg.MoveSlop {
			c.log.Debug("press cancelled by movement")
			c.state.clear()
		}
		return false
	case PhaseDragging:
		c.state.setPointer(p)
		sess, _ := c.state.Session()
		t, over := Resolve(c.layout, sess)
		changed := c.state.setTarget(t, over)
		if changed {
			c.log.WithFields(logrus.Fields{"container": t.ContainerID, "index": t.Index}).Debug("target changed")
		}
		return changed
	default:
		return false
	}
}

// PointerUp ends the lifecycle. A pending press becomes a click. A drag commits
// to its last resolved target; the state is cleared and the host restored whether
// or not the commit succeeds.
func (c *Controller) PointerUp(ctx context.Context, p Point) (Release, error) {
	switch c.state.Phase() {
	case PhasePending:
		src := c.state.pending.source
		c.state.clear()
		return Release{Click: true, Source: src, Entity: src.Entity}, nil
	case PhaseDragging:
		c.PointerMove(p)
		sess, _ := c.state.Session()
		defer c.end(sess.Entity)

		rel := Release{Entity: sess.Entity, Target: sess.Target}
		if c.commit == nil {
			return rel, nil
		}
		out, err := c.commit.Commit(ctx, sess.Entity, sess.Target)
		rel.Outcome = out
		if err != nil {
			c.log.WithError(err).WithField("id", sess.Entity.ID).Error("drop commit failed")
			return rel, err
		}
		c.log.WithFields(logrus.Fields{"id": sess.Entity.ID, "outcome": out}).Debug("drag released")
		return rel, nil
	default:
		return Release{}, nil
	}
}

// Cancel abandons a pending press or an active drag without committing.
func (c *Controller) Cancel() {
	switch c.state.Phase() {
	case PhasePending:
		c.state.clear()
	case PhaseDragging:
		sess, _ := c.state.Session()
		c.end(sess.Entity)
		c.log.WithField("id", sess.Entity.ID).Debug("drag cancelled")
	}
}

func (c *Controller) end(e Entity) {
	c.state.clear()
	if c.host != nil {
		c.host.DragEnded(e)
	}
}
