package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPerson, "name is %s", "missing")

	if err.Code != ErrCodeInvalidPerson {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidPerson)
	}
	if err.Message != "name is missing" {
		t.Errorf("Message = %q, want %q", err.Message, "name is missing")
	}
	if want := "INVALID_PERSON: name is missing"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeStoreWrite, cause, "update person %s", "p1")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
	if want := "STORE_WRITE_ERROR: update person p1: connection refused"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeCycle, "person a is its own ancestor")

	if !Is(err, ErrCodeCycle) {
		t.Error("Is() did not match the code")
	}
	if Is(err, ErrCodeStoreRead) {
		t.Error("Is() matched a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeCycle) {
		t.Error("Is() matched a plain error")
	}

	// Codes survive further wrapping with %w.
	wrapped := fmt.Errorf("render: %w", err)
	if !Is(wrapped, ErrCodeCycle) {
		t.Error("Is() did not unwrap the chain")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeBlob, "upload failed")); got != ErrCodeBlob {
		t.Errorf("GetCode() = %s, want %s", got, ErrCodeBlob)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidPerson, "name is required")
	if got := UserMessage(err); got != "name is required" {
		t.Errorf("UserMessage() = %q, want %q", got, "name is required")
	}
	if got := UserMessage(stderrors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestValidatePersonName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "Ada Lovelace", false},
		{"Empty", "", true},
		{"Blank", "   ", true},
		{"ControlChars", "Ada\x00", true},
		{"Unicode", "Ida Nøkleby", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePersonName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePersonName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePersonID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "6f1a2b3c", false},
		{"UUID", "a8098c1a-f86e-11da-bd1a-00112444be1e", false},
		{"Empty", "", true},
		{"Traversal", "../etc/passwd", true},
		{"Slash", "a/b", true},
		{"Space", "a b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePersonID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePersonID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateYear(t *testing.T) {
	if err := ValidateYear(""); err != nil {
		t.Errorf("ValidateYear(empty) error: %v", err)
	}
	if err := ValidateYear("ca. 1890"); err != nil {
		t.Errorf("ValidateYear(free text) error: %v", err)
	}
	if err := ValidateYear("19\x0044"); err == nil {
		t.Error("ValidateYear accepted control characters")
	}
}

func TestValidateImageExtension(t *testing.T) {
	for _, ext := range []string{".jpg", ".JPEG", ".png", ".webp"} {
		if err := ValidateImageExtension(ext); err != nil {
			t.Errorf("ValidateImageExtension(%q) error: %v", ext, err)
		}
	}
	for _, ext := range []string{"", ".exe", ".svg"} {
		if err := ValidateImageExtension(ext); err == nil {
			t.Errorf("ValidateImageExtension(%q) accepted", ext)
		}
	}
}
