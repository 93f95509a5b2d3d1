package swrcache

import "testing"

func TestGetPolicyValidation(t *testing.T) {
	cases := []struct {
		name    string
		policy  GetPolicy
		wantErr bool
	}{
		{"valid", DefaultGetPolicy(), false},
		{"hard zero", GetPolicy{HardSec: 0, SoftSec: 0}, true},
		{"soft negative", GetPolicy{HardSec: 10, SoftSec: -1}, true},
		{"soft greater than hard", GetPolicy{HardSec: 10, SoftSec: 11}, true},
		{"soft equals hard", GetPolicy{HardSec: 10, SoftSec: 10}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.policy.validate()
			if (err != nil) != c.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestGetPolicyWithStyleDerivationIsImmutable(t *testing.T) {
	base := DefaultGetPolicy()
	derived := base.WithHardSec(999).WithFailMode(FailClosed)

	if base.HardSec == 999 || base.FailMode == FailClosed {
		t.Fatalf("With* mutated the original policy: %+v", base)
	}
	if derived.HardSec != 999 || derived.FailMode != FailClosed {
		t.Fatalf("With* did not apply to derived policy: %+v", derived)
	}
}

func TestInvalidatePolicyDefaultResolvesToDeleteSync(t *testing.T) {
	p := DefaultInvalidatePolicy()
	if p.resolvedMode() != DeleteSync {
		t.Fatalf("expected DEFAULT to resolve to DeleteSync, got %v", p.resolvedMode())
	}
}

func TestInvalidatePolicyWithModeIsImmutable(t *testing.T) {
	base := DefaultInvalidatePolicy()
	derived := base.WithMode(DeleteAsync).WithCascadeNamespaces(true)

	if base.Mode != InvalidateDefault || base.CascadeNamespaces {
		t.Fatalf("With* mutated the original policy: %+v", base)
	}
	if derived.Mode != DeleteAsync || !derived.CascadeNamespaces {
		t.Fatalf("With* did not apply: %+v", derived)
	}
}
