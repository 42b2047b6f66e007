package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory serves a reports-to edge list.
type fakeDirectory struct {
	reportsTo map[uint]uint // child -> manager
}

func (d *fakeDirectory) DirectReportIDs(_ context.Context, managerIDs []uint) ([]uint, error) {
	managers := map[uint]bool{}
	for _, id := range managerIDs {
		managers[id] = true
	}
	var out []uint
	for child, manager := range d.reportsTo {
		if managers[manager] {
			out = append(out, child)
		}
	}
	return out, nil
}

func TestSubordinateClosure_IncludesSelf(t *testing.T) {
	dir := &fakeDirectory{reportsTo: map[uint]uint{}}

	closure, err := SubordinateClosure(context.Background(), dir, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint{5}, closure)
}

func TestSubordinateClosure_Transitive(t *testing.T) {
	// 1 <- 2 <- 3, and 4 reports to 1 directly.
	dir := &fakeDirectory{reportsTo: map[uint]uint{
		2: 1,
		3: 2,
		4: 1,
	}}

	closure, err := SubordinateClosure(context.Background(), dir, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2, 3, 4}, closure)
}

func TestSubordinateClosure_UnrelatedUsersExcluded(t *testing.T) {
	dir := &fakeDirectory{reportsTo: map[uint]uint{
		2: 1,
		9: 8,
	}}

	closure, err := SubordinateClosure(context.Background(), dir, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, closure)
}

func TestSubordinateClosure_CycleTerminates(t *testing.T) {
	// Bad data: 1 reports to 2 and 2 reports to 1. The walk must still
	// terminate with the finite set.
	dir := &fakeDirectory{reportsTo: map[uint]uint{
		1: 2,
		2: 1,
	}}

	closure, err := SubordinateClosure(context.Background(), dir, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, closure)
}
