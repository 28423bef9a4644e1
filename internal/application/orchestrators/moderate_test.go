package orchestrators

import (
	"context"
	"errors"
	"testing"

	"dogreg/internal/domain/dog"
	"dogreg/internal/ports/gateway"
)

// mockModerateGateway implements RecordsGatewayForModerate for testing.
// Records are held in submission order so the refetched queue reflects
// every status change.
type mockModerateGateway struct {
	records   map[string]*dog.Record
	order     []string
	updateErr error
	listCalls int
}

func newMockModerateGateway(records ...dog.Record) *mockModerateGateway {
	m := &mockModerateGateway{records: make(map[string]*dog.Record)}
	for i := range records {
		r := records[i]
		m.records[r.ID] = &r
		m.order = append(m.order, r.ID)
	}
	return m
}

func (m *mockModerateGateway) UpdateRecordStatus(_ context.Context, _, id, status string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	r, ok := m.records[id]
	if !ok {
		return gateway.ErrNotFound
	}
	r.Status = status
	return nil
}

func (m *mockModerateGateway) ListPendingRecords(context.Context, string) ([]dog.Record, error) {
	m.listCalls++
	var pending []dog.Record
	for _, id := range m.order {
		if m.records[id].IsPending() {
			pending = append(pending, *m.records[id])
		}
	}
	return pending, nil
}

// TestExecuteModerate_Approve tests that an approved record leaves the
// refetched pending queue.
func TestExecuteModerate_Approve(t *testing.T) {
	gw := newMockModerateGateway(
		dog.Record{ID: "r1", Name: "Rex", Sex: dog.SexMale, Status: dog.StatusPending},
		dog.Record{ID: "r2", Name: "Luna", Sex: dog.SexFemale, Status: dog.StatusPending},
	)
	pending, err := ExecuteModerate(context.Background(), ModerateInput{
		Token:    "tok-admin",
		RecordID: "r1",
		Action:   ActionApprove,
	}, ModerateDeps{Gateway: gw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "r2" {
		t.Errorf("expected only r2 pending, got %+v", pending)
	}
	if gw.records["r1"].Status != dog.StatusApproved {
		t.Errorf("expected r1 approved, got %s", gw.records["r1"].Status)
	}
	if gw.listCalls != 1 {
		t.Errorf("expected exactly one refetch, got %d", gw.listCalls)
	}
}

// TestExecuteModerate_Reject tests the reject action.
func TestExecuteModerate_Reject(t *testing.T) {
	gw := newMockModerateGateway(
		dog.Record{ID: "r1", Name: "Rex", Sex: dog.SexMale, Status: dog.StatusPending},
	)
	pending, err := ExecuteModerate(context.Background(), ModerateInput{
		Token:    "tok-admin",
		RecordID: "r1",
		Action:   ActionReject,
	}, ModerateDeps{Gateway: gw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected empty pending queue, got %+v", pending)
	}
	if gw.records["r1"].Status != dog.StatusRejected {
		t.Errorf("expected r1 rejected, got %s", gw.records["r1"].Status)
	}
}

// TestExecuteModerate_InvalidAction tests action validation.
func TestExecuteModerate_InvalidAction(t *testing.T) {
	gw := newMockModerateGateway()
	_, err := ExecuteModerate(context.Background(), ModerateInput{
		Token:    "tok-admin",
		RecordID: "r1",
		Action:   "delete",
	}, ModerateDeps{Gateway: gw})
	if !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}

// TestExecuteModerate_MissingRecordID tests the empty-ID guard.
func TestExecuteModerate_MissingRecordID(t *testing.T) {
	gw := newMockModerateGateway()
	_, err := ExecuteModerate(context.Background(), ModerateInput{
		Token:  "tok-admin",
		Action: ActionApprove,
	}, ModerateDeps{Gateway: gw})
	if err == nil {
		t.Error("expected error for missing record id")
	}
}

// TestExecuteModerate_UpdateFailure tests that a failed update skips
// the refetch and surfaces the error.
func TestExecuteModerate_UpdateFailure(t *testing.T) {
	gw := newMockModerateGateway()
	gw.updateErr = gateway.ErrUnauthorized
	_, err := ExecuteModerate(context.Background(), ModerateInput{
		Token:    "tok-user",
		RecordID: "r1",
		Action:   ActionApprove,
	}, ModerateDeps{Gateway: gw})
	if !errors.Is(err, gateway.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if gw.listCalls != 0 {
		t.Errorf("refetch ran after a failed update: %d", gw.listCalls)
	}
}
