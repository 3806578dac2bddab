package normalization

import "testing"

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jordan.Smith@Example.COM "); got != "jordan.smith@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode(" cs135 "); got != "CS135" {
		t.Fatalf("NormalizeCode = %q", got)
	}
}

func TestNormalizeTerm(t *testing.T) {
	if got := NormalizeTerm(" Fall "); got != "fall" {
		t.Fatalf("NormalizeTerm = %q", got)
	}
}
