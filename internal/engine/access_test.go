package engine_test

import (
	"testing"

	"atrium/internal/engine"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateAccess(t *testing.T) {
	tests := []struct {
		name         string
		room         engine.RoomAccess
		requesterOrg string
		wantAllowed  bool
		wantReason   engine.Reason
	}{
		{
			name:         "private room allows owning org",
			room:         engine.RoomAccess{OwnerOrgID: "org-a", Level: engine.AccessLevelPrivate, Active: true},
			requesterOrg: "org-a",
			wantAllowed:  true,
		},
		{
			name:         "private room denies other org",
			room:         engine.RoomAccess{OwnerOrgID: "org-a", Level: engine.AccessLevelPrivate, Active: true},
			requesterOrg: "org-b",
			wantReason:   engine.ReasonNotSameOrg,
		},
		{
			name:         "public room allows anyone",
			room:         engine.RoomAccess{OwnerOrgID: "org-a", Level: engine.AccessLevelPublic, Active: true},
			requesterOrg: "org-z",
			wantAllowed:  true,
		},
		{
			name:         "org_only room allows listed org",
			room:         engine.RoomAccess{OwnerOrgID: "org-a", Level: engine.AccessLevelOrgOnly, AllowedOrgIDs: []string{"org-b"}, Active: true},
			requesterOrg: "org-b",
			wantAllowed:  true,
		},
		{
			name:         "org_only room denies unlisted org",
			room:         engine.RoomAccess{OwnerOrgID: "org-a", Level: engine.AccessLevelOrgOnly, AllowedOrgIDs: []string{"org-b"}, Active: true},
			requesterOrg: "org-c",
			wantReason:   engine.ReasonNotInAllowlist,
		},
		{
			name:         "org_only room always allows owning org even when unlisted",
			room:         engine.RoomAccess{OwnerOrgID: "org-a", Level: engine.AccessLevelOrgOnly, AllowedOrgIDs: []string{"org-b"}, Active: true},
			requesterOrg: "org-a",
			wantAllowed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := engine.EvaluateAccess(tt.room, tt.requesterOrg)

			assert.Equal(t, tt.wantAllowed, decision.Allowed)
			assert.Equal(t, tt.wantReason, decision.Reason)
		})
	}
}
