package momo

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "local format with leading zero",
			raw:  "0671234567",
			want: "237671234567",
		},
		{
			name: "bare subscriber number",
			raw:  "671234567",
			want: "237671234567",
		},
		{
			name: "already international",
			raw:  "237671234567",
			want: "237671234567",
		},
		{
			name: "plus prefix",
			raw:  "+237671234567",
			want: "237671234567",
		},
		{
			name: "spaces and dashes",
			raw:  "+237 671-23-45-67",
			want: "237671234567",
		},
		{
			name: "parentheses",
			raw:  "(0)671234567",
			want: "237671234567",
		},
		{
			name: "eight digit subscriber",
			raw:  "67123456",
			want: "23767123456",
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "letters",
			raw:     "067abc4567",
			wantErr: true,
		},
		{
			name:    "too short",
			raw:     "0671",
			wantErr: true,
		},
		{
			name:    "too long",
			raw:     "2376712345678901",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizePhone(tc.raw, "237")
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidPhoneNumber) {
					t.Fatalf("expected ErrInvalidPhoneNumber, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"0671234567", "671234567", "+237 671 234 567", "237671234567"}
	for _, raw := range inputs {
		once, err := NormalizePhone(raw, "237")
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		twice, err := NormalizePhone(once, "237")
		if err != nil {
			t.Fatalf("unexpected error renormalizing %q: %v", once, err)
		}
		if once != twice {
			t.Errorf("normalization not idempotent for %q: %s then %s", raw, once, twice)
		}
	}
}
