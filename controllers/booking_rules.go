package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stayhaven/stayhaven_backend/models"
)

const bookingDateLayout = "2006-01-02"

var (
	errBadDateOrder = errors.New("check-out must be after check-in")
	errUnknownRoom  = errors.New("unknown room type for this hotel")
)

// ParseBookingDates parses the calendar-day check-in/check-out pair and
// enforces their ordering
func ParseBookingDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.ParseInLocation(bookingDateLayout, checkIn, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := time.ParseInLocation(bookingDateLayout, checkOut, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, errBadDateOrder
	}
	return in, out, nil
}

// Nights counts the nights between two calendar days
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// NightlyRate resolves the rate for a booking: the matching room type's
// rate when one is named, the hotel base rate otherwise
func NightlyRate(hotel *models.Hotel, roomType string) (float64, error) {
	if roomType == "" {
		return hotel.PricePerNight, nil
	}
	for _, room := range hotel.Rooms {
		if strings.EqualFold(room.Type, roomType) {
			return room.PricePerNight, nil
		}
	}
	return 0, errUnknownRoom
}

// ComputeTotalPrice recomputes the booking total server-side. The
// client-supplied totalPrice is never trusted.
func ComputeTotalPrice(hotel *models.Hotel, roomType string, checkIn, checkOut time.Time) (float64, error) {
	rate, err := NightlyRate(hotel, roomType)
	if err != nil {
		return 0, err
	}
	return rate * float64(Nights(checkIn, checkOut)), nil
}

// CanUpdateBookingStatus encodes who may move a booking where: the hotel
// owner and admin may apply any transition; the booking's creator may
// only cancel their own booking.
func CanUpdateBookingStatus(isAdmin, isHotelOwner, isCreator bool, newStatus string) bool {
	if isAdmin || isHotelOwner {
		return true
	}
	return isCreator && newStatus == models.BookingCancelled
}

// NewBookingReference creates the short reference printed on
// confirmations and encoded into the check-in QR code
func NewBookingReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "BK-" + id[:10]
}
