package model

import "testing"

func TestValidatePerson(t *testing.T) {
	tests := []struct {
		name      string
		person    string
		age       int
		wantField string // empty means valid
	}{
		{"valid", "Harry", 17, ""},
		{"age at upper bound", "Albus", 120, ""},
		{"empty name", "", 17, "name"},
		{"negative age", "Harry", -1, "age"},
		{"age over bound", "Nicolas Flamel", 121, "age"},
		{"universe name wrong age", "Master of the Universe", 30, "age"},
		{"universe name mixed case", "uNiVeRsE", 30, "age"},
		{"universe name right age", "Master of the Universe", 42, ""},
		{"universe rule skipped for empty name", "", 30, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fieldErrors := ValidatePerson(tt.person, tt.age)
			if tt.wantField == "" {
				if fieldErrors != nil {
					t.Errorf("ValidatePerson(%q, %d) = %v, want valid", tt.person, tt.age, fieldErrors)
				}
				return
			}
			if _, ok := fieldErrors[tt.wantField]; !ok {
				t.Errorf("ValidatePerson(%q, %d) = %v, want an error on %q",
					tt.person, tt.age, fieldErrors, tt.wantField)
			}
		})
	}
}
