package secrets

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestKeyring_RotateReseals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault_master.key")
	k := KeyringAt(path)

	old, err := k.EncryptText("hunter2")
	if err != nil {
		t.Fatalf("EncryptText failed: %v", err)
	}
	oldKey, _ := os.ReadFile(path)

	var resealed string
	err = k.Rotate(func(reseal ResealFunc) error {
		var err error
		resealed, err = reseal(old)
		return err
	})
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}

	newKey, _ := os.ReadFile(path)
	if bytes.Equal(oldKey, newKey) {
		t.Fatal("Expected the key file to change")
	}
	if _, err := os.Stat(path + ".next"); !os.IsNotExist(err) {
		t.Error("Expected the pending key file to be moved into place")
	}

	got, err := k.DecryptText(resealed)
	if err != nil || got != "hunter2" {
		t.Errorf("DecryptText(resealed) = %q, %v; want hunter2", got, err)
	}
	if _, err := k.DecryptText(old); err == nil {
		t.Error("Expected the old ciphertext to stop decrypting")
	}
}

func TestKeyring_RotateFailureKeepsKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault_master.key")
	k := KeyringAt(path)

	enc, err := k.EncryptText("hunter2")
	if err != nil {
		t.Fatalf("EncryptText failed: %v", err)
	}
	oldKey, _ := os.ReadFile(path)

	boom := errors.New("boom")
	if err := k.Rotate(func(ResealFunc) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Expected the callback error, got: %v", err)
	}

	newKey, _ := os.ReadFile(path)
	if !bytes.Equal(oldKey, newKey) {
		t.Error("Expected the key file to be unchanged")
	}
	if _, err := os.Stat(path + ".next"); !os.IsNotExist(err) {
		t.Error("Expected the pending key file to be removed")
	}
	if got, err := k.DecryptText(enc); err != nil || got != "hunter2" {
		t.Errorf("DecryptText = %q, %v; want hunter2", got, err)
	}
}

func TestKeyring_RotateResealRejectsForeignCiphertext(t *testing.T) {
	k := KeyringAt(filepath.Join(t.TempDir(), "vault_master.key"))
	other := KeyringAt(filepath.Join(t.TempDir(), "other.key"))

	foreign, err := other.EncryptText("x")
	if err != nil {
		t.Fatalf("EncryptText failed: %v", err)
	}

	var resealErr error
	err = k.Rotate(func(reseal ResealFunc) error {
		_, resealErr = reseal(foreign)
		return nil
	})
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if resealErr == nil {
		t.Error("Expected resealing a foreign ciphertext to fail")
	}
}

func TestKeyring_RotateCounts(t *testing.T) {
	k := KeyringAt(filepath.Join(t.TempDir(), "vault_master.key"))

	before := Stats().KeyRotations
	if err := k.Rotate(func(ResealFunc) error { return nil }); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if got := Stats().KeyRotations; got != before+1 {
		t.Errorf("Expected %d rotations, got: %d", before+1, got)
	}
}
