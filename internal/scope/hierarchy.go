package scope

import "context"

// Directory answers reporting-hierarchy questions about users.
type Directory interface {
	// DirectReportIDs returns the ids of users whose reports_to is in the
	// given set.
	DirectReportIDs(ctx context.Context, managerIDs []uint) ([]uint, error)
}

// SubordinateClosure returns the transitive set of users reporting to userID,
// including userID itself. The walk is breadth-first with one directory query
// per level, and tracks visited ids so a reports-to cycle introduced by bad
// data still terminates.
func SubordinateClosure(ctx context.Context, dir Directory, userID uint) ([]uint, error) {
	visited := map[uint]bool{userID: true}
	closure := []uint{userID}
	frontier := []uint{userID}

	for len(frontier) > 0 {
		children, err := dir.DirectReportIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, id := range children {
			if visited[id] {
				continue
			}
			visited[id] = true
			closure = append(closure, id)
			frontier = append(frontier, id)
		}
	}

	return closure, nil
}
