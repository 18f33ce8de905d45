package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionString(t *testing.T) {
	gokeyring.MockInit()

	const connStr = "postgres://meter@db.internal:5432/books?sslmode=disable"
	if err := SetConnectionString("  " + connStr + "\n"); err != nil {
		t.Fatalf("SetConnectionString() error = %v", err)
	}
	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() error = %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want trimmed %q", got, connStr)
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() error = %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() after delete error = %v, want ErrNotFound", err)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteConnectionString() error = %v, want ErrNotFound", err)
	}
	if err := SetConnectionString(" "); err == nil {
		t.Error("SetConnectionString(blank) error = nil")
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false with a working keyring")
	}

	gokeyring.MockInitWithError(errors.New("org.freedesktop.secrets was not provided"))
	t.Cleanup(gokeyring.MockInit)

	if IsAvailable() {
		t.Error("IsAvailable() = true when the keyring errors")
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetConnectionString() error = %v, want ErrKeyringUnavailable", err)
	}
	if err := SetConnectionString("host=db.internal"); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("SetConnectionString() error = %v, want ErrKeyringUnavailable", err)
	}
}
