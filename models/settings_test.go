package models

import "testing"

func TestPartnerSettingsSanitize(t *testing.T) {
	settings := &PartnerSettings{
		Payout: PayoutPreferences{Method: "bank_transfer", AccountRef: "IBAN123", Currency: "USD"},
	}

	clean := settings.Sanitize(RolePartner)
	if clean.Payout.AccountRef != "" {
		t.Errorf("partner view leaked account ref: %q", clean.Payout.AccountRef)
	}
	if clean.Payout.Method != "bank_transfer" {
		t.Error("sanitize should keep non-secret payout fields")
	}
	if settings.Payout.AccountRef == "" {
		t.Error("sanitize mutated the original settings")
	}
}

func TestSystemSettingsPublic(t *testing.T) {
	settings := &SystemSettings{
		PlatformFeePercent: 12,
		MaxBookingNights:   21,
		MaxGuestsPerRoom:   4,
		MaintenanceMode:    true,
		ContactEmail:       "help@stayhaven.app",
		StorageWebhookKey:  "secret",
	}

	public := settings.Public()
	if public.MaxBookingNights != 21 || public.MaxGuestsPerRoom != 4 || !public.MaintenanceMode {
		t.Errorf("public subset dropped fields: %+v", public)
	}
	if public.ContactEmail != "help@stayhaven.app" {
		t.Errorf("contact email = %q", public.ContactEmail)
	}
}
