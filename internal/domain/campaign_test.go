package domain

import "testing"

func TestCampaign_Progress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		c      Campaign
		expect float64
	}{
		{name: "partial", c: Campaign{GoalAmount: 10000, RaisedAmount: 4500}, expect: 45},
		{name: "capped", c: Campaign{GoalAmount: 100, RaisedAmount: 250}, expect: 100},
		{name: "zero goal", c: Campaign{GoalAmount: 0, RaisedAmount: 50}, expect: 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.c.Progress(); got != tc.expect {
				t.Fatalf("Progress()=%v, want %v", got, tc.expect)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"guest", "backer", "campaignOwner", "admin"} {
		if _, err := ParseRole(s); err != nil {
			t.Fatalf("ParseRole(%q) err=%v", s, err)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if RoleBacker.CanOwnCampaigns() || !RoleAdmin.CanOwnCampaigns() || !RoleCampaignOwner.CanOwnCampaigns() {
		t.Fatalf("CanOwnCampaigns mismatch")
	}
	if RoleAdmin.SelfAssignable() {
		t.Fatalf("admin must not be self-assignable")
	}
}

func TestUser_DisplayName(t *testing.T) {
	t.Parallel()

	if got := (User{Username: "  Asha   Rao "}).DisplayName(); got != "Asha Rao" {
		t.Fatalf("DisplayName()=%q", got)
	}
	if got := (User{}).DisplayName(); got != "User" {
		t.Fatalf("DisplayName()=%q, want fallback", got)
	}
}
