package repository

import (
	"errors"
	"testing"
)

func TestNewEquipmentRepository(t *testing.T) {
	repo := NewEquipmentRepository(nil)
	if repo == nil {
		t.Fatal("expected non-nil EquipmentRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestEquipmentSentinelErrors(t *testing.T) {
	if ErrEquipmentNotFound.Error() != "equipment not found" {
		t.Fatalf("unexpected error message: %s", ErrEquipmentNotFound.Error())
	}
	if ErrDuplicateSerial.Error() != "serial number already exists" {
		t.Fatalf("unexpected error message: %s", ErrDuplicateSerial.Error())
	}
	if errors.Is(ErrDuplicateSerial, ErrDuplicateEmail) {
		t.Fatal("duplicate-serial and duplicate-email must be distinct errors")
	}
}

func TestDuplicateEntryDetection(t *testing.T) {
	// The mysql driver surfaces constraint violations as error 1062 with a
	// "Duplicate entry" message; that is what the repositories key on.
	err := errors.New(`Error 1062 (23000): Duplicate entry 'SN1' for key 'equipment.serial_number'`)
	if !isDuplicateEntryError(err) {
		t.Fatal("expected mysql duplicate-entry error to be detected")
	}
}
