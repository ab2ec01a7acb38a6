package dnd

import "kanban-cli/internal/order"

// Resolve computes the drop target for sess against l. When the pointer is over
// no valid container the previous target is returned unchanged (sticky) and
// over is false.
func Resolve(l Layout, sess Session) (t Target, over bool) {
	switch sess.Entity.Kind {
	case KindItem:
		return resolveItem(l, sess)
	case KindList:
		return resolveList(l, sess)
	default:
		return sess.Target, false
	}
}

func resolveItem(l Layout, sess Session) (Target, bool) {
	p := sess.Pointer
	hitID := ""
	for _, c := range l.Containers() {
		if c.Bounds.Contains(p) {
			hitID = c.ID
			break
		}
	}
	if hitID == "" {
		return sess.Target, false
	}

	// Index of the first sibling whose top edge is below the pointer; the dragged
	// item itself is excluded from the scan.
	raw := 0
	for _, ch := range l.Children(hitID) {
		if ch.ID == sess.Entity.ID {
			continue
		}
		if ch.Bounds.Y > p.Y {
			break
		}
		raw++
	}

	same := hitID == sess.Entity.ContainerID
	return Target{ContainerID: hitID, Index: order.CorrectIndex(sess.Entity.Index, raw, same)}, true
}

func resolveList(l Layout, sess Session) (Target, bool) {
	p := sess.Pointer
	if scope := l.Scope(); !scope.Empty() && !scope.Contains(p) {
		return sess.Target, false
	}

	raw := 0
	for _, c := range l.Containers() {
		if c.ID == sess.Entity.ID {
			continue
		}
		if c.Header.X > p.X {
			break
		}
		raw++
	}
	return Target{
		ContainerID: sess.Entity.ContainerID,
		Index:       order.CorrectIndex(sess.Entity.Index, raw, true),
	}, true
}
