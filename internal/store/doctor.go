package store

import (
	"context"
	"fmt"

	"kanban-cli/internal/model"
	"kanban-cli/internal/order"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level       DoctorIssueLevel `json:"level"`
	Code        string           `json:"code"`
	Message     string           `json:"message"`
	ContainerID string           `json:"containerId,omitempty"`
	EntityID    string           `json:"entityId,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
	Fixed  int           `json:"fixed"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks the dense-order invariant of every container and dangling
// references. With fix set, non-dense containers are re-densified in place
// (keeping their current relative order) in one transaction.
func (s *Store) Doctor(ctx context.Context, fix bool) (DoctorReport, error) {
	rep := DoctorReport{Issues: []DoctorIssue{}}
	err := s.Transaction(ctx, func(tx *Tx) error {
		boards, err := tx.Boards().InContainer(ctx, "", false)
		if err != nil {
			return err
		}
		n, err := checkContainer(ctx, &rep, "board set", "", boards, fix, tx.Boards().Update)
		if err != nil {
			return err
		}
		rep.Fixed += n

		allBoards, err := tx.Boards().FindMany(ctx, nil)
		if err != nil {
			return err
		}
		boardIDs := map[string]bool{}
		for _, b := range allBoards {
			boardIDs[b.ID] = true
			lists, err := tx.ListsOfBoard(ctx, b.ID)
			if err != nil {
				return err
			}
			n, err := checkContainer(ctx, &rep, "board", b.ID, lists, fix, tx.Lists().Update)
			if err != nil {
				return err
			}
			rep.Fixed += n
		}

		allLists, err := tx.Lists().FindMany(ctx, nil)
		if err != nil {
			return err
		}
		listIDs := map[string]bool{}
		for _, l := range allLists {
			listIDs[l.ID] = true
			if !boardIDs[l.BoardID] {
				rep.Issues = append(rep.Issues, DoctorIssue{
					Level: DoctorIssueLevelWarn, Code: "list_orphaned",
					Message: "list references a missing board", ContainerID: l.BoardID, EntityID: l.ID,
				})
			}
			items, err := tx.ItemsOfList(ctx, l.ID)
			if err != nil {
				return err
			}
			n, err := checkContainer(ctx, &rep, "list", l.ID, items, fix, tx.Items().Update)
			if err != nil {
				return err
			}
			rep.Fixed += n
		}

		orphans, err := tx.Items().FindMany(ctx, func(it model.Item) bool { return !listIDs[it.ListID] })
		if err != nil {
			return err
		}
		for _, it := range orphans {
			rep.Issues = append(rep.Issues, DoctorIssue{
				Level: DoctorIssueLevelWarn, Code: "item_orphaned",
				Message: "item references a missing list", ContainerID: it.ListID, EntityID: it.ID,
			})
		}
		return nil
	})
	return rep, err
}

func checkContainer[T any, P interface {
	*T
	order.Entity
}](ctx context.Context, rep *DoctorReport, kind, id string, rows []T, fix bool, update func(context.Context, T) error) (int, error) {
	ptrs := make([]P, len(rows))
	for i := range rows {
		ptrs[i] = P(&rows[i])
	}
	err := order.CheckDense(ptrs)
	if err == nil {
		return 0, nil
	}
	rep.Issues = append(rep.Issues, DoctorIssue{
		Level:       DoctorIssueLevelError,
		Code:        "order_not_dense",
		Message:     fmt.Sprintf("%s: %v", kind, err),
		ContainerID: id,
	})
	if !fix {
		return 0, nil
	}
	order.Sort(ptrs)
	changed := order.Reindex(ptrs)
	for _, p := range changed {
		if err := update(ctx, *p); err != nil {
			return 0, err
		}
	}
	return len(changed), nil
}
