package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dormops-backend/internal/model"
)

func TestAllowed(t *testing.T) {
	testCases := []struct {
		name    string
		held    []model.Role
		op      Operation
		allowed bool
	}{
		{"admin may do anything", []model.Role{model.RoleAdmin}, OpSemesterArchive, true},
		{"admin may issue fines", []model.Role{model.RoleAdmin}, OpFineIssue, true},
		{"treasurer may issue fines", []model.Role{model.RoleTreasurer}, OpFineIssue, true},
		{"treasurer may void fines", []model.Role{model.RoleTreasurer}, OpFineVoid, true},
		{"secretary may not void fines", []model.Role{model.RoleSecretary}, OpFineVoid, false},
		{"occupant may view ledger", []model.Role{model.RoleOccupant}, OpLedgerView, true},
		{"occupant may not write ledger", []model.Role{model.RoleOccupant}, OpLedgerWrite, false},
		{"occupant may not archive", []model.Role{model.RoleOccupant}, OpSemesterArchive, false},
		{"treasurer may not archive", []model.Role{model.RoleTreasurer}, OpSemesterArchive, false},
		{"secretary may manage events", []model.Role{model.RoleSecretary}, OpEventManage, true},
		{"no roles denies everything", nil, OpFineView, false},
		{"unknown operation denied even for admin-less sets", []model.Role{model.RoleTreasurer}, Operation("bogus.op"), false},
		{"any matching role in the set suffices", []model.Role{model.RoleOccupant, model.RoleTreasurer}, OpLedgerWrite, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, Allowed(tc.held, tc.op))
		})
	}
}

func TestOperationsCoversPolicy(t *testing.T) {
	// Admin holds every operation in the table.
	ops := Operations(model.RoleAdmin)
	assert.Len(t, ops, len(policy))

	// Occupant never gains a mutating finance operation.
	for _, op := range Operations(model.RoleOccupant) {
		assert.NotEqual(t, OpLedgerWrite, op)
		assert.NotEqual(t, OpFineIssue, op)
	}
}
