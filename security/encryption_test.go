package security

import (
	"testing"
)

// TestMain sets up the encryption key for all tests and cleans up after
func TestMain(m *testing.M) {
	InitializeEncryption("test-encryption-passphrase")

	m.Run()

	encryptionKey = nil
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	values := []string{
		"warranty-api-key-1234",
		"",
		"value with spaces and symbols !@#$%",
	}

	for _, v := range values {
		encrypted, err := Encrypt(v)
		if err != nil {
			t.Fatalf("Encrypt(%q) failed: %v", v, err)
		}

		if encrypted == v && v != "" {
			t.Errorf("Encrypted value should differ from plaintext %q", v)
		}

		decrypted, err := Decrypt(encrypted)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}

		if decrypted != v {
			t.Errorf("Expected round trip to return %q, got %q", v, decrypted)
		}
	}
}

func TestEncryptProducesUniqueCiphertexts(t *testing.T) {
	a, err := Encrypt("same-value")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encrypt("same-value")
	if err != nil {
		t.Fatal(err)
	}

	// Random nonce means identical plaintexts must not share ciphertext
	if a == b {
		t.Error("Expected distinct ciphertexts for repeated encryption")
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	if _, err := Decrypt("not-base64!!!"); err == nil {
		t.Error("Expected error decrypting invalid base64")
	}

	if _, err := Decrypt("aGVsbG8="); err == nil {
		t.Error("Expected error decrypting short ciphertext")
	}
}

func TestUninitializedKeyFails(t *testing.T) {
	saved := encryptionKey
	encryptionKey = nil
	defer func() { encryptionKey = saved }()

	if _, err := Encrypt("x"); err == nil {
		t.Error("Expected error encrypting without a key")
	}
	if _, err := Decrypt("x"); err == nil {
		t.Error("Expected error decrypting without a key")
	}
}
