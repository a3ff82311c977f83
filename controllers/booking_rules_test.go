package controllers

import (
	"strings"
	"testing"
	"time"

	"github.com/stayhaven/stayhaven_backend/models"
)

func TestParseBookingDates(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		wantErr  bool
	}{
		{name: "valid range", checkIn: "2026-09-01", checkOut: "2026-09-04"},
		{name: "single night", checkIn: "2026-09-01", checkOut: "2026-09-02"},
		{name: "same day", checkIn: "2026-09-01", checkOut: "2026-09-01", wantErr: true},
		{name: "reversed", checkIn: "2026-09-04", checkOut: "2026-09-01", wantErr: true},
		{name: "garbage check-in", checkIn: "not-a-date", checkOut: "2026-09-01", wantErr: true},
		{name: "timestamp not accepted", checkIn: "2026-09-01T10:00:00Z", checkOut: "2026-09-04", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out, err := ParseBookingDates(tt.checkIn, tt.checkOut)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v..%v", in, out)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if in.Location() != time.UTC || out.Location() != time.UTC {
				t.Errorf("dates should be UTC, got %v and %v", in.Location(), out.Location())
			}
		})
	}
}

func TestComputeTotalPrice(t *testing.T) {
	hotel := &models.Hotel{
		PricePerNight: 80,
		Rooms: []models.Room{
			{Type: "Standard", PricePerNight: 80},
			{Type: "Deluxe", PricePerNight: 120},
		},
	}

	day := func(d string) time.Time {
		parsed, err := time.ParseInLocation("2006-01-02", d, time.UTC)
		if err != nil {
			t.Fatalf("bad test date %q: %v", d, err)
		}
		return parsed
	}

	tests := []struct {
		name     string
		roomType string
		checkIn  string
		checkOut string
		want     float64
		wantErr  bool
	}{
		{name: "base rate three nights", roomType: "", checkIn: "2026-09-01", checkOut: "2026-09-04", want: 240},
		{name: "named room", roomType: "Deluxe", checkIn: "2026-09-01", checkOut: "2026-09-03", want: 240},
		{name: "room match is case-insensitive", roomType: "deluxe", checkIn: "2026-09-01", checkOut: "2026-09-02", want: 120},
		{name: "unknown room", roomType: "Penthouse", checkIn: "2026-09-01", checkOut: "2026-09-02", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotalPrice(hotel, tt.roomType, day(tt.checkIn), day(tt.checkOut))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("total = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanUpdateBookingStatus(t *testing.T) {
	tests := []struct {
		name                            string
		isAdmin, isHotelOwner, isCreator bool
		newStatus                       string
		want                            bool
	}{
		{name: "admin confirms", isAdmin: true, newStatus: models.BookingConfirmed, want: true},
		{name: "owner completes", isHotelOwner: true, newStatus: models.BookingCompleted, want: true},
		{name: "creator cancels own booking", isCreator: true, newStatus: models.BookingCancelled, want: true},
		{name: "creator cannot confirm", isCreator: true, newStatus: models.BookingConfirmed, want: false},
		{name: "unrelated guest cannot cancel", newStatus: models.BookingCancelled, want: false},
		{name: "unrelated guest cannot confirm", newStatus: models.BookingConfirmed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanUpdateBookingStatus(tt.isAdmin, tt.isHotelOwner, tt.isCreator, tt.newStatus)
			if got != tt.want {
				t.Errorf("CanUpdateBookingStatus = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewBookingReference(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ref := NewBookingReference()
		if !strings.HasPrefix(ref, "BK-") {
			t.Fatalf("reference %q missing prefix", ref)
		}
		if len(ref) != 13 {
			t.Fatalf("reference %q has length %d, want 13", ref, len(ref))
		}
		if seen[ref] {
			t.Fatalf("duplicate reference %q", ref)
		}
		seen[ref] = true
	}
}
