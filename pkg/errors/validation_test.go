package errors

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Launch card", false},
		{"valid with punctuation", "Q3 report: final", false},
		{"valid unicode", "Démo café", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"carriage return", "foo\rbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid png", "logo.png", false},
		{"valid with dash", "team-avatar.jpg", false},
		{"valid with underscore", "hero_image.webp", false},

		{"empty", "", true},
		{"forward slash", "dir/logo.png", true},
		{"backslash", "dir\\logo.png", true},
		{"path traversal", "..png", true},
		{"hidden file", ".htaccess", true},
		{"null byte", "logo\x00.png", true},
		{"control char", "logo\x01.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAssetURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid https", "https://cdn.example.com/a.png", false},
		{"valid http", "http://localhost:9000/a.png", false},

		{"empty", "", true},
		{"file scheme", "file:///etc/passwd", true},
		{"data url", "data:image/png;base64,iVBOR", true},
		{"scheme relative", "//cdn.example.com/a.png", true},
		{"bare path", "assets/a.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
