// Package views turns dog records into view-model cards and rendered
// HTML fragments. The transformation is pure so it stays unit-testable
// without any rendering environment.
package views

import (
	"strings"

	"dogreg/internal/domain/dog"
)

// Card is the view model for one dog record.
type Card struct {
	ID            string
	Title         string
	Meta          string // sex symbol, birth date, color
	OwnerLine     string // empty when the owner is not resolvable
	MicrochipLine string
	PedigreeLine  string
	ShowActions   bool // approve/reject affordances (admin mode only)
}

// NoRecordsPlaceholder is rendered instead of an empty container when
// a view has no records to show.
const NoRecordsPlaceholder = `<p class="muted">No records to show.</p>`

// htmlEscaper escapes the characters that break out of markup. Record
// fields are user-supplied, so escaping is a contract, not hardening.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return htmlEscaper.Replace(s)
}

// BuildCard maps one record to its view model.
func BuildCard(r dog.Record, adminMode bool) Card {
	sexLabel := "♀ female"
	if r.Sex == dog.SexMale {
		sexLabel = "♂ male"
	}
	meta := []string{sexLabel}
	if r.DateOfBirth != "" {
		meta = append(meta, "b. "+r.DateOfBirth)
	}
	if r.Color != "" {
		meta = append(meta, r.Color)
	}
	return Card{
		ID:            r.ID,
		Title:         r.Name,
		Meta:          strings.Join(meta, " • "),
		OwnerLine:     r.OwnerName,
		MicrochipLine: r.MicrochipNumber,
		PedigreeLine:  r.PedigreeNumber,
		ShowActions:   adminMode,
	}
}

// BuildCards maps a record list to view models.
func BuildCards(records []dog.Record, adminMode bool) []Card {
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		cards = append(cards, BuildCard(r, adminMode))
	}
	return cards
}

// Fragment renders one card as an HTML fragment. All interpolated text
// is escaped before insertion.
func (c Card) Fragment() string {
	var b strings.Builder
	b.WriteString(`<div class="card-item">`)
	b.WriteString("<h3>" + escape(c.Title) + "</h3>")
	b.WriteString(`<div class="meta">` + escape(c.Meta) + "</div>")
	if c.OwnerLine != "" {
		b.WriteString(`<div class="meta">owner: ` + escape(c.OwnerLine) + "</div>")
	}
	if c.MicrochipLine != "" {
		b.WriteString(`<div class="meta">microchip: ` + escape(c.MicrochipLine) + "</div>")
	}
	if c.PedigreeLine != "" {
		b.WriteString(`<div class="meta">pedigree: ` + escape(c.PedigreeLine) + "</div>")
	}
	if c.ShowActions {
		b.WriteString(`<div class="actions">`)
		b.WriteString(`<button class="btn" data-approve data-id="` + escape(c.ID) + `">Approve</button>`)
		b.WriteString(`<button class="btn ghost" data-reject data-id="` + escape(c.ID) + `">Reject</button>`)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// RenderList renders a card list, or the no-records placeholder for an
// empty list, never an empty container.
func RenderList(cards []Card) string {
	if len(cards) == 0 {
		return NoRecordsPlaceholder
	}
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.Fragment())
	}
	return b.String()
}
