package domain

// Action names a mutation that requires an authorization decision.
type Action string

const (
	ActionEventMutate             Action = "event:mutate"
	ActionEventManageParticipants Action = "event:manage_participants"
	ActionEventManageInvitations  Action = "event:manage_invitations"
	ActionInvitationRespond       Action = "invitation:respond"
	ActionTaskMutate              Action = "task:mutate"
	ActionTaskUnvalidate          Action = "task:unvalidate"
)

// roleRank is the single definition of the role hierarchy.
var roleRank = map[string]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// RoleAtLeast reports whether role meets or exceeds required in the role
// hierarchy. Unknown roles rank below every known role.
func RoleAtLeast(role, required string) bool {
	return roleRank[role] >= roleRank[required]
}

// ValidRole reports whether role is a known role level.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// CanPerform decides whether actorID may perform action on resource. It is a
// pure function over already-loaded entities: nil on allow, ErrForbidden on
// deny, ErrInvalidInput when the action does not apply to the resource.
func CanPerform(actorID string, action Action, resource any) error {
	switch action {
	case ActionEventMutate, ActionEventManageParticipants, ActionEventManageInvitations:
		event, ok := resource.(*Event)
		if !ok {
			return ErrInvalidInput
		}
		if event.OwnerID != actorID {
			return ErrForbidden
		}
	case ActionInvitationRespond:
		inv, ok := resource.(*Invitation)
		if !ok {
			return ErrInvalidInput
		}
		if inv.InvitedUserID != actorID {
			return ErrForbidden
		}
	case ActionTaskMutate:
		task, ok := resource.(*Task)
		if !ok {
			return ErrInvalidInput
		}
		if task.OwnerID != actorID {
			return ErrForbidden
		}
	case ActionTaskUnvalidate:
		task, ok := resource.(*Task)
		if !ok {
			return ErrInvalidInput
		}
		if task.ValidatedBy == nil || *task.ValidatedBy != actorID {
			return ErrForbidden
		}
	default:
		return ErrInvalidInput
	}
	return nil
}
