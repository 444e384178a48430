package types_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/enishi-chat/enishi/pkg/domain/types"
)

func TestIdentityIDValidate(t *testing.T) {
	gt.NoError(t, types.IdentityID("user-123").Validate())
	gt.Value(t, types.IdentityID("").Validate()).NotNil()
	gt.Value(t, types.IdentityID(strings.Repeat("x", 129)).Validate()).NotNil()
	gt.NoError(t, types.IdentityID(strings.Repeat("x", 128)).Validate())
}

func TestCompanionID(t *testing.T) {
	id := types.NewCompanionID()
	gt.Bool(t, id.IsCompanion()).True()
	gt.Bool(t, types.IdentityID("user-123").IsCompanion()).False()

	// Two generated companions never collide
	gt.Value(t, types.NewCompanionID()).NotEqual(id)
}

func TestGeneratedIDs(t *testing.T) {
	gt.Value(t, types.NewRoomID()).NotEqual(types.NewRoomID())
	gt.Value(t, types.NewRequestID()).NotEqual(types.NewRequestID())
	gt.Value(t, types.NewInvitationID()).NotEqual(types.NewInvitationID())
}

func TestInvitationStatusTerminal(t *testing.T) {
	gt.Bool(t, types.InvitationPending.IsTerminal()).False()
	gt.Bool(t, types.InvitationAccepted.IsTerminal()).True()
	gt.Bool(t, types.InvitationDeclined.IsTerminal()).True()
	gt.Bool(t, types.InvitationExpired.IsTerminal()).True()
}
