// Package authz centralizes role-based authorization. Every gated action
// names an Operation; the policy table below is the one place that decides
// which dorm roles may perform it.
package authz

import "dormops-backend/internal/model"

// Operation identifies a gated action.
type Operation string

const (
	OpDormManage       Operation = "dorm.manage"
	OpMembershipManage Operation = "membership.manage"

	OpOccupantView   Operation = "occupant.view"
	OpOccupantManage Operation = "occupant.manage"
	OpRoomAssign     Operation = "room.assign"

	OpFineView  Operation = "fine.view"
	OpFineIssue Operation = "fine.issue"
	OpFineVoid  Operation = "fine.void"

	OpLedgerView  Operation = "ledger.view"
	OpLedgerWrite Operation = "ledger.write"

	OpCommitteeView   Operation = "committee.view"
	OpCommitteeManage Operation = "committee.manage"

	OpEventView   Operation = "event.view"
	OpEventManage Operation = "event.manage"
	OpScoreWrite  Operation = "score.write"

	OpEvaluationView   Operation = "evaluation.view"
	OpEvaluationManage Operation = "evaluation.manage"
	OpEvaluationSubmit Operation = "evaluation.submit"

	OpSemesterManage  Operation = "semester.manage"
	OpSemesterArchive Operation = "semester.archive"

	OpCleaningView   Operation = "cleaning.view"
	OpCleaningManage Operation = "cleaning.manage"

	OpOrganizerInvoke Operation = "organizer.invoke"
)

// policy maps each operation to the roles allowed to perform it. Admin is
// always allowed and is therefore omitted from the sets.
var policy = map[Operation][]model.Role{
	OpDormManage:       {},
	OpMembershipManage: {},

	OpOccupantView:   {model.RoleTreasurer, model.RoleSecretary, model.RoleOccupant},
	OpOccupantManage: {model.RoleSecretary},
	OpRoomAssign:     {model.RoleSecretary},

	OpFineView:  {model.RoleTreasurer, model.RoleSecretary, model.RoleOccupant},
	OpFineIssue: {model.RoleTreasurer, model.RoleSecretary},
	OpFineVoid:  {model.RoleTreasurer},

	OpLedgerView:  {model.RoleTreasurer, model.RoleSecretary, model.RoleOccupant},
	OpLedgerWrite: {model.RoleTreasurer},

	OpCommitteeView:   {model.RoleTreasurer, model.RoleSecretary, model.RoleOccupant},
	OpCommitteeManage: {model.RoleSecretary},

	OpEventView:   {model.RoleTreasurer, model.RoleSecretary, model.RoleOccupant},
	OpEventManage: {model.RoleSecretary},
	OpScoreWrite:  {model.RoleSecretary},

	OpEvaluationView:   {model.RoleSecretary, model.RoleOccupant},
	OpEvaluationManage: {model.RoleSecretary},
	OpEvaluationSubmit: {model.RoleSecretary, model.RoleOccupant},

	OpSemesterManage:  {},
	OpSemesterArchive: {},

	OpCleaningView:   {model.RoleSecretary, model.RoleOccupant},
	OpCleaningManage: {model.RoleSecretary},

	OpOrganizerInvoke: {model.RoleSecretary},
}

// Allowed reports whether any of the held roles may perform op. Unknown
// operations are denied regardless of role.
func Allowed(held []model.Role, op Operation) bool {
	allowed, known := policy[op]
	if !known {
		return false
	}
	for _, r := range held {
		if r == model.RoleAdmin {
			return true
		}
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	return false
}

// Operations returns every operation the given role may perform. Used by
// the whoami endpoint so clients can hide controls the user cannot use.
func Operations(role model.Role) []Operation {
	var ops []Operation
	for op := range policy {
		if Allowed([]model.Role{role}, op) {
			ops = append(ops, op)
		}
	}
	return ops
}
