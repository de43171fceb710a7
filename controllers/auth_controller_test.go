package controllers

import "testing"

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		otp, err := generateOTP(6)
		if err != nil {
			t.Fatalf("generateOTP: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("generateOTP returned %q, want 6 digits", otp)
		}
		for _, r := range otp {
			if r < '0' || r > '9' {
				t.Fatalf("generateOTP returned non-digit %q", otp)
			}
		}
		seen[otp] = true
	}
	if len(seen) < 2 {
		t.Error("generateOTP returned the same code on every call")
	}
}
