package dnd

import "fmt"

type Kind int

const (
	KindItem Kind = iota + 1
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entity identifies what is being dragged and where it currently sits.
// ContainerID is the list id for items and the board id for lists; Index is the
// entity's position among the container's active members.
type Entity struct {
	Kind        Kind
	ID          string
	ContainerID string
	Index       int
}

// Target is where a release would land. Index counts gaps in the container's
// full sequence (dragged entity included): the entity is placed before whatever
// currently sits at Index. For a same-container drag both Index == origin and
// Index == origin+1 mean "stay put".
type Target struct {
	ContainerID string
	Index       int
}

// IsNoop reports whether releasing e at t leaves it where it is.
func (t Target) IsNoop(e Entity) bool {
	return e.Index >= 0 && t.ContainerID == e.ContainerID && (t.Index == e.Index || t.Index == e.Index+1)
}

// Source is a draggable element as seen at pointer-down.
type Source struct {
	Entity Entity
	Bounds Rect
	// Clone renders the detached, non-interactive visual copy. Called once when the
	// drag begins.
	Clone func() string
}

// Session is the live drag record. It exists only while Phase is PhaseDragging.
type Session struct {
	Entity Entity
	Clone  string
	// Offset is the pointer position relative to the source's top-left corner at
	// the moment the drag began.
	Offset  Point
	Pointer Point
	Target  Target
	// Over reports whether the last pointer update hit a valid container.
	Over bool
}

// CloneOrigin is where the host should draw the clone's top-left corner.
func (s Session) CloneOrigin() Point { return s.Pointer.Sub(s.Offset) }

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseDragging:
		return "dragging"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type press struct {
	seq    uint64
	source Source
	start  Point
}

// State is the single shared drag record for one board. Item and list drags are
// mutually exclusive: a press is only accepted while idle.
//
// State is not safe for concurrent use; the host mutates it from its event loop.
type State struct {
	phase   Phase
	pending press
	session Session
}

func (s *State) Phase() Phase { return s.phase }

func (s *State) Active() bool { return s.phase == PhaseDragging }

// Session returns the live session, if any.
func (s *State) Session() (Session, bool) {
	if s.phase != PhaseDragging {
		return Session{}, false
	}
	return s.session, true
}

// Pending returns the armed press source, if any.
func (s *State) Pending() (Source, bool) {
	if s.phase != PhasePending {
		return Source{}, false
	}
	return s.pending.source, true
}

func (s *State) arm(p press) {
	s.phase = PhasePending
	s.pending = p
	s.session = Session{}
}

func (s *State) begin(sess Session) {
	s.phase = PhaseDragging
	s.pending = press{}
	s.session = sess
}

func (s *State) setPointer(p Point) { s.session.Pointer = p }

// setTarget stores t and reports whether it differs from the previous target.
func (s *State) setTarget(t Target, over bool) bool {
	s.session.Over = over
	if s.session.Target == t {
		return false
	}
	s.session.Target = t
	return true
}

func (s *State) clear() {
	s.phase = PhaseIdle
	s.pending = press{}
	s.session = Session{}
}
