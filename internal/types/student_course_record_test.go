package types

import "testing"

func TestStatusRank(t *testing.T) {
	cases := []struct {
		status string
		want   int
	}{
		{RecordStatusPlanned, 1},
		{RecordStatusInProgress, 2},
		{RecordStatusCompleted, 3},
		{"dropped", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := StatusRank(c.status); got != c.want {
			t.Fatalf("StatusRank(%q) = %d, want %d", c.status, got, c.want)
		}
	}
}

func TestStatusRankOrdersForwardOnly(t *testing.T) {
	if StatusRank(RecordStatusPlanned) >= StatusRank(RecordStatusInProgress) {
		t.Fatalf("planned must rank below in_progress")
	}
	if StatusRank(RecordStatusInProgress) >= StatusRank(RecordStatusCompleted) {
		t.Fatalf("in_progress must rank below completed")
	}
}
