package workflow

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusSupervisorApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusApproved, false}, // supervisor gate cannot be skipped
		{StatusSupervisorApproved, StatusApproved, true},
		{StatusSupervisorApproved, StatusRejected, true},
		{StatusSupervisorApproved, StatusCancelled, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
		{StatusCancelled, StatusSupervisorApproved, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []Status{StatusApproved, StatusRejected, StatusCancelled}
	open := []Status{StatusPending, StatusSupervisorApproved}

	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
