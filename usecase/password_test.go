package usecase

import "testing"

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"meets every rule", "Abc123!", true},
		{"too short", "Ab1!", false},
		{"no upper case", "abc123!", false},
		{"no lower case", "ABC123!", false},
		{"no digit", "Abcdef!", false},
		{"no special character", "Abc1234", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.ok && err != nil {
				t.Fatalf("expected %q to pass, got %v", tc.password, err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected %q to fail", tc.password)
			}
		})
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Abc123!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Abc123!" {
		t.Fatal("hash equals the plaintext")
	}
	if !CheckPassword(hash, "Abc123!") {
		t.Fatal("correct password does not verify")
	}
	if CheckPassword(hash, "Abc123?") {
		t.Fatal("wrong password verifies")
	}
}
