package identity

import (
	"github.com/google/uuid"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

func parseTenantUser(tenantID, userID string) (uuid.UUID, uuid.UUID, error) {
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return uuid.Nil, uuid.Nil, shared.NewDomainError("INVALID_INPUT", "Invalid tenant ID")
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, shared.NewDomainError("INVALID_INPUT", "Invalid user ID")
	}
	return tid, uid, nil
}
