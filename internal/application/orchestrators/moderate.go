package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"dogreg/internal/domain/dog"
)

// Moderation actions
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ErrInvalidAction is returned for an unknown moderation action.
var ErrInvalidAction = errors.New("action must be 'approve' or 'reject'")

// RecordsGatewayForModerate defines the gateway surface needed by Moderate.
type RecordsGatewayForModerate interface {
	UpdateRecordStatus(ctx context.Context, token, id, status string) error
	ListPendingRecords(ctx context.Context, token string) ([]dog.Record, error)
}

// ModerateInput carries input for the moderation orchestrator.
type ModerateInput struct {
	Token    string
	RecordID string
	Action   string // approve, reject
}

// ModerateDeps holds dependencies for Moderate.
type ModerateDeps struct {
	Gateway RecordsGatewayForModerate
}

// ExecuteModerate applies an approve/reject action and then re-fetches
// the pending queue from the gateway. There is no optimistic local
// update: the fresh list is the only truth handed back to the caller.
// PRE: record ID is non-empty, action is approve or reject
// POST: record in terminal status; returns the refreshed pending queue
func ExecuteModerate(ctx context.Context, input ModerateInput, deps ModerateDeps) ([]dog.Record, error) {
	if input.RecordID == "" {
		return nil, errors.New("record id is required")
	}
	var status string
	switch input.Action {
	case ActionApprove:
		status = dog.StatusApproved
	case ActionReject:
		status = dog.StatusRejected
	default:
		return nil, ErrInvalidAction
	}

	if err := deps.Gateway.UpdateRecordStatus(ctx, input.Token, input.RecordID, status); err != nil {
		return nil, err
	}
	slog.Info("moderation_event", "event", "record_moderated", "record_id", input.RecordID, "status", status)

	return deps.Gateway.ListPendingRecords(ctx, input.Token)
}
