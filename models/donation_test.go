package models

import "testing"

func TestDonationStatusTransitions(t *testing.T) {
	cases := []struct {
		from    DonationStatus
		to      DonationStatus
		allowed bool
	}{
		{DonationAvailable, DonationClaimed, true},
		{DonationAvailable, DonationCancelled, true},
		{DonationAvailable, DonationDelivered, false},
		{DonationClaimed, DonationDelivered, true},
		{DonationClaimed, DonationCancelled, true},
		{DonationClaimed, DonationAvailable, false},
		{DonationDelivered, DonationClaimed, false},
		{DonationDelivered, DonationCancelled, false},
		{DonationCancelled, DonationAvailable, false},
		{DonationCancelled, DonationClaimed, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	all := []DonationStatus{DonationAvailable, DonationClaimed, DonationDelivered, DonationCancelled}
	for _, terminal := range []DonationStatus{DonationDelivered, DonationCancelled} {
		for _, next := range all {
			if terminal.CanTransitionTo(next) {
				t.Errorf("terminal status %s must not transition to %s", terminal, next)
			}
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{CategoryFood, CategoryClothes, CategoryBooks, CategoryToys,
		CategoryMedicine, CategoryFurniture, CategoryElectronics, CategoryOther} {
		if !c.Valid() {
			t.Errorf("category %s should be valid", c)
		}
	}
	if Category("weapons").Valid() {
		t.Error("unknown category should be invalid")
	}
	if Category("").Valid() {
		t.Error("empty category should be invalid")
	}
}

func TestDonationStatusValid(t *testing.T) {
	if DonationStatus("in_transit").Valid() {
		t.Error("in_transit is not part of the status machine")
	}
	if !DonationAvailable.Valid() {
		t.Error("available should be valid")
	}
}
