package errors

import "testing"

func TestValidateColor(t *testing.T) {
	tests := []struct {
		color   string
		wantErr bool
	}{
		{"", false},
		{"#6750A4", false},
		{"#abc", false},
		{"#6750A480", false},
		{"6750A4", true},
		{"#6750A", true},
		{"red", true},
	}
	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			err := ValidateColor(tt.color)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.color, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidColor) {
				t.Errorf("ValidateColor(%q) code = %v", tt.color, GetCode(err))
			}
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"two weeks", "2025-01-06", "2025-01-20", false},
		{"same day", "2025-01-06", "2025-01-06", false},
		{"reversed", "2025-01-20", "2025-01-06", true},
		{"bad start", "2025/01/06", "2025-01-20", true},
		{"bad end", "2025-01-06", "tomorrow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDateRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDateRange() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"default", false},
		{"3f0c9a1e-2b7d-4c1a-9f1e-1b2c3d4e5f60", false},
		{"", true},
		{"   ", true},
		{"../etc", true},
		{"a/b", true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if err := ValidateID(tt.id); (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Sprint 1"); err != nil {
		t.Errorf("ValidateName() unexpected error: %v", err)
	}
	if err := ValidateName("bad\x00name"); err == nil {
		t.Error("ValidateName() should reject control characters")
	}
}
