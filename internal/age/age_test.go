package age

import (
	"testing"
	"time"
)

func TestOf(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-10 * time.Minute)
	completed := created.Add(3 * time.Minute)
	future := now.Add(4 * time.Minute)
	zero := time.Time{}

	cases := []struct {
		name        string
		createdAt   time.Time
		completedAt *time.Time
		open        bool
		want        time.Duration
		ok          bool
	}{
		{
			name:      "open uses now",
			createdAt: created,
			open:      true,
			want:      10 * time.Minute,
			ok:        true,
		},
		{
			name:      "open clamps future creation",
			createdAt: future,
			open:      true,
			want:      0,
			ok:        true,
		},
		{
			name:        "completed uses completion time",
			createdAt:   created,
			completedAt: &completed,
			want:        3 * time.Minute,
			ok:          true,
		},
		{
			name:      "closed without completion",
			createdAt: created,
		},
		{
			name:        "closed with zero completion",
			createdAt:   created,
			completedAt: &zero,
		},
		{
			name: "missing creation time",
			open: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Of(tc.createdAt, tc.completedAt, tc.open, now)
			if ok != tc.ok {
				t.Fatalf("expected ok %v, got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
