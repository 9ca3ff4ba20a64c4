package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct-horse-battery" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !Verify("correct-horse-battery", hash) {
		t.Error("correct password rejected")
	}
	if Verify("wrong-password", hash) {
		t.Error("wrong password accepted")
	}
	if Verify("correct-horse-battery", "not-a-bcrypt-hash") {
		t.Error("malformed hash accepted")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same-password-123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash("same-password-123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("refresh-token-a")
	b := HashToken("refresh-token-b")

	if a == b {
		t.Error("different tokens must hash differently")
	}
	if a != HashToken("refresh-token-a") {
		t.Error("token hashing must be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"", false},
		{"short", false},
		{"1234567", false},
		{"12345678", true},
		{"a-much-longer-password", true},
	}

	for _, tt := range tests {
		if got := Validate(tt.password); got != tt.want {
			t.Errorf("Validate(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}
