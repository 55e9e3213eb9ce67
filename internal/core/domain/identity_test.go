package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":   RoleAdmin,
		" Admin ": RoleAdmin,
		"user":    RoleUser,
		"":        RoleUser,
		"root":    RoleUser,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIdentity_HasAnyRole(t *testing.T) {
	user := Identity{UserID: "1", Role: RoleUser}
	admin := Identity{UserID: "2", Role: RoleAdmin}

	if !user.HasAnyRole() {
		t.Fatalf("no requirement must admit any identity")
	}
	if user.HasAnyRole(RoleAdmin) {
		t.Fatalf("user must not satisfy admin")
	}
	if !admin.HasAnyRole(RoleAdmin) {
		t.Fatalf("admin must satisfy admin")
	}
	if !user.HasAnyRole(RoleAdmin, RoleUser) {
		t.Fatalf("membership in any listed role is enough")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalised email %q", got)
	}
}
