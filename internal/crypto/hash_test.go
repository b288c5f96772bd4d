package crypto

import (
	"strings"
	"testing"
)

// cheapParams keeps argon2 fast in tests.
var cheapParams = HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashSecret(t *testing.T) {
	hash, err := HashSecret("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("HashSecret() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("HashSecret() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("HashSecret() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("HashSecret() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("HashSecret() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestVerifySecret(t *testing.T) {
	hash, err := hashWithParams("my-admin-secret", cheapParams)
	if err != nil {
		t.Fatalf("hashWithParams() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{"correct secret", "my-admin-secret", true},
		{"wrong secret", "not-my-secret", false},
		{"empty secret", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := VerifySecret(tt.secret, hash)
			if err != nil {
				t.Fatalf("VerifySecret() unexpected error: %v", err)
			}
			if match != tt.want {
				t.Errorf("VerifySecret() = %v, want %v", match, tt.want)
			}
		})
	}
}

func TestHashSecretProducesDifferentHashes(t *testing.T) {
	a, err := hashWithParams("same", cheapParams)
	if err != nil {
		t.Fatalf("hashWithParams() unexpected error: %v", err)
	}
	b, err := hashWithParams("same", cheapParams)
	if err != nil {
		t.Fatalf("hashWithParams() unexpected error: %v", err)
	}
	if a == b {
		t.Error("identical hashes for the same secret (salt should differ)")
	}
}

func TestVerifySecretInvalidHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want error
	}{
		{"garbage", "invalid-hash-format", ErrInvalidHashFormat},
		{"wrong algorithm", "$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5", ErrInvalidHashFormat},
		{"wrong version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$a2V5", ErrIncompatibleVersion},
		{"bad salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5", ErrInvalidHashFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifySecret("password", tt.hash)
			if err != tt.want {
				t.Errorf("VerifySecret() error = %v, want %v", err, tt.want)
			}
		})
	}
}
