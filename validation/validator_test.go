package validation

import (
	"strings"
	"testing"
)

func TestValidateCAS(t *testing.T) {
	v := NewAccessionValidator()

	valid := []string{"50-12-4", "7732-18-5", "50-00-0", " 64-17-5 "}
	for _, id := range valid {
		got, err := v.ValidateCAS(id)
		if err != nil {
			t.Errorf("ValidateCAS(%q) returned error: %v", id, err)
			continue
		}
		if got != strings.TrimSpace(id) {
			t.Errorf("ValidateCAS(%q) = %q, want trimmed input", id, got)
		}
	}

	invalid := []string{
		"",
		"50-12-5",      // wrong check digit
		"50125",        // no hyphens
		"5-12-4",       // first segment too short
		"50-1-4",       // second segment wrong length
		"abc-12-4",     // non-numeric
		"50-12-44",     // check digit too long
		"50--12-4",     // double hyphen
		"1; DROP TABLE //",
	}
	for _, id := range invalid {
		if _, err := v.ValidateCAS(id); err == nil {
			t.Errorf("ValidateCAS(%q) should have failed", id)
		}
	}
}

func TestValidateCID(t *testing.T) {
	v := NewAccessionValidator()

	valid := map[string]string{
		"962":     "962",
		"2244":    "2244",
		" 1 ":     "1",
		"0000962": "962",
	}
	for input, want := range valid {
		got, err := v.ValidateCID(input)
		if err != nil {
			t.Errorf("ValidateCID(%q) returned error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ValidateCID(%q) = %q, want %q", input, got, want)
		}
	}

	invalid := []string{"", "0", "-5", "12.5", "abc", "9999999999", "2244 OR 1=1"}
	for _, input := range invalid {
		if _, err := v.ValidateCID(input); err == nil {
			t.Errorf("ValidateCID(%q) should have failed", input)
		}
	}
}

func TestValidateDrugBankID(t *testing.T) {
	v := NewAccessionValidator()

	got, err := v.ValidateDrugBankID("db00316")
	if err != nil {
		t.Fatalf("ValidateDrugBankID lowercase returned error: %v", err)
	}
	if got != "DB00316" {
		t.Errorf("ValidateDrugBankID(\"db00316\") = %q, want DB00316", got)
	}

	invalid := []string{"", "DB316", "DB000316", "XX00316", "00316", "DB0031A"}
	for _, id := range invalid {
		if _, err := v.ValidateDrugBankID(id); err == nil {
			t.Errorf("ValidateDrugBankID(%q) should have failed", id)
		}
	}
}

func TestValidateKEGGID(t *testing.T) {
	v := NewAccessionValidator()

	valid := []string{"C00001", "D02176", "c00001", " d02176 "}
	for _, id := range valid {
		got, err := v.ValidateKEGGID(id)
		if err != nil {
			t.Errorf("ValidateKEGGID(%q) returned error: %v", id, err)
			continue
		}
		if got[0] != 'C' && got[0] != 'D' {
			t.Errorf("ValidateKEGGID(%q) = %q, expected uppercase prefix", id, got)
		}
	}

	invalid := []string{"", "E00001", "C0001", "C000001", "D0217A"}
	for _, id := range invalid {
		if _, err := v.ValidateKEGGID(id); err == nil {
			t.Errorf("ValidateKEGGID(%q) should have failed", id)
		}
	}
}

func TestValidateInputScreening(t *testing.T) {
	v := NewAccessionValidator()

	dangerous := []string{
		"<script>alert(1)</script>",
		"javascript:void(0)",
		"962' OR '1'='1",
		"962; rm -rf /tmp",
		"../../etc/passwd",
		"$(curl evil)",
		"962 union select 1",
		strings.Repeat("9", 101),
	}
	for _, input := range dangerous {
		if err := v.ValidateInput(input); err == nil {
			t.Errorf("ValidateInput(%q) should have failed", input)
		}
	}

	safe := []string{"962", "DB00316", "50-12-4", "C00001"}
	for _, input := range safe {
		if err := v.ValidateInput(input); err != nil {
			t.Errorf("ValidateInput(%q) returned error: %v", input, err)
		}
	}
}
