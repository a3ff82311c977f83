package models

import "testing"

func TestSupportTicketSanitize(t *testing.T) {
	ticket := &SupportTicket{
		Subject:       "Payment question",
		InternalNotes: "possible chargeback, watch this account",
	}

	clean := ticket.Sanitize(RoleGuest)
	if clean.InternalNotes != "" {
		t.Errorf("guest view leaked internal notes: %q", clean.InternalNotes)
	}
	if ticket.InternalNotes == "" {
		t.Error("sanitize mutated the original ticket")
	}

	if admin := ticket.Sanitize(RoleAdmin); admin.InternalNotes == "" {
		t.Error("admin view should keep internal notes")
	}
}
