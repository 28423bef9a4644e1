package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"dogreg/internal/domain/dog"
	"dogreg/internal/ports/gateway"
)

// RecordsGatewayForSubmit defines the gateway surface needed by SubmitRecord.
type RecordsGatewayForSubmit interface {
	InsertRecord(ctx context.Context, token string, rec gateway.NewRecord) error
}

// SubmitRecordInput carries the new-record form fields. There is no
// status field: submissions are always pending, whatever the form
// might otherwise contain.
type SubmitRecordInput struct {
	Token           string
	Name            string
	Sex             string
	DateOfBirth     string
	Color           string
	MicrochipNumber string
	PedigreeNumber  string
	Notes           string
}

// SubmitRecordDeps holds dependencies for SubmitRecord.
type SubmitRecordDeps struct {
	Gateway RecordsGatewayForSubmit
}

// ExecuteSubmitRecord submits a new dog record for review. Optional
// fields are trimmed and, when empty, omitted from the payload rather
// than sent as empty strings.
// PRE: name and sex are provided
// POST: record inserted in pending status
func ExecuteSubmitRecord(ctx context.Context, input SubmitRecordInput, deps SubmitRecordDeps) error {
	rec := gateway.NewRecord{
		Name:            strings.TrimSpace(input.Name),
		Sex:             strings.TrimSpace(input.Sex),
		DateOfBirth:     strings.TrimSpace(input.DateOfBirth),
		Color:           strings.TrimSpace(input.Color),
		MicrochipNumber: strings.TrimSpace(input.MicrochipNumber),
		PedigreeNumber:  strings.TrimSpace(input.PedigreeNumber),
		Notes:           strings.TrimSpace(input.Notes),
	}
	if rec.Name == "" {
		return dog.ErrEmptyName
	}
	if rec.Sex != dog.SexMale && rec.Sex != dog.SexFemale {
		return dog.ErrInvalidSex
	}

	if err := deps.Gateway.InsertRecord(ctx, input.Token, rec); err != nil {
		return err
	}
	slog.Info("record_event", "event", "record_submitted", "name", rec.Name)
	return nil
}
