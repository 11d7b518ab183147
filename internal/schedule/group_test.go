package schedule

import (
	"reflect"
	"testing"

	"github.com/stretchlp/stretchboard/internal/booking"
)

func ids(groups [][]booking.Booking) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		for _, b := range g {
			out[i] = append(out[i], b.ID)
		}
	}
	return out
}

func TestIsOverlapping(t *testing.T) {
	a := bk("A", 9, 0, 10, 0)
	b := bk("B", 9, 30, 10, 30)
	c := bk("C", 10, 0, 11, 0)

	if !IsOverlapping(a, b) {
		t.Error("A and B should overlap")
	}
	if IsOverlapping(a, c) {
		t.Error("touching A and C should not overlap")
	}
}

func TestGroupOverlapping(t *testing.T) {
	tests := []struct {
		name     string
		bookings []booking.Booking
		policy   GroupPolicy
		want     [][]string
	}{
		{
			name:   "empty",
			policy: GroupFirstNeighbor,
			want:   [][]string{},
		},
		{
			name:     "disjoint",
			bookings: []booking.Booking{bk("A", 9, 0, 10, 0), bk("B", 10, 0, 11, 0), bk("C", 13, 0, 14, 0)},
			policy:   GroupFirstNeighbor,
			want:     [][]string{{"A"}, {"B"}, {"C"}},
		},
		{
			name:     "pair",
			bookings: []booking.Booking{bk("A", 9, 0, 10, 0), bk("B", 9, 30, 10, 30)},
			policy:   GroupFirstNeighbor,
			want:     [][]string{{"A", "B"}},
		},
		{
			name: "chain first neighbor",
			bookings: []booking.Booking{
				bk("A", 9, 0, 10, 0),
				bk("B", 9, 30, 11, 0),
				bk("C", 10, 30, 12, 0),
			},
			policy: GroupFirstNeighbor,
			want:   [][]string{{"A", "B"}, {"C"}},
		},
		{
			name: "chain connected",
			bookings: []booking.Booking{
				bk("A", 9, 0, 10, 0),
				bk("B", 9, 30, 11, 0),
				bk("C", 10, 30, 12, 0),
			},
			policy: GroupConnected,
			want:   [][]string{{"A", "B", "C"}},
		},
		{
			name: "connected keeps input order",
			bookings: []booking.Booking{
				bk("C", 10, 30, 12, 0),
				bk("X", 15, 0, 16, 0),
				bk("A", 9, 0, 10, 0),
				bk("B", 9, 30, 11, 0),
			},
			policy: GroupConnected,
			want:   [][]string{{"C", "A", "B"}, {"X"}},
		},
		{
			name: "seed claims all direct neighbors",
			bookings: []booking.Booking{
				bk("A", 9, 0, 12, 0),
				bk("B", 9, 0, 9, 30),
				bk("C", 11, 0, 11, 30),
			},
			policy: GroupFirstNeighbor,
			want:   [][]string{{"A", "B", "C"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(GroupOverlapping(tt.bookings, tt.policy))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GroupOverlapping() = %v, want %v", got, tt.want)
			}
		})
	}
}

func sampleDay() []booking.Booking {
	return []booking.Booking{
		bk("b1", 9, 0, 10, 0),
		bk("b2", 9, 30, 10, 30),
		bk("b3", 10, 0, 11, 20),
		bk("b4", 11, 0, 11, 40),
		bk("b5", 13, 0, 14, 0),
		bk("b6", 13, 0, 14, 20),
		bk("b7", 18, 0, 19, 0),
		bk("b8", 10, 15, 10, 55),
	}
}

func TestGroupOverlapping_Determinism(t *testing.T) {
	for _, policy := range []GroupPolicy{GroupFirstNeighbor, GroupConnected} {
		t.Run(policy.String(), func(t *testing.T) {
			first := ids(GroupOverlapping(sampleDay(), policy))
			second := ids(GroupOverlapping(sampleDay(), policy))
			if !reflect.DeepEqual(first, second) {
				t.Errorf("grouping changed between runs: %v vs %v", first, second)
			}
		})
	}
}

func TestGroupOverlapping_Correctness(t *testing.T) {
	for _, policy := range []GroupPolicy{GroupFirstNeighbor, GroupConnected} {
		t.Run(policy.String(), func(t *testing.T) {
			groups := GroupOverlapping(sampleDay(), policy)

			seen := map[string]int{}
			for gi, g := range groups {
				for _, b := range g {
					seen[b.ID]++
				}
				seed := g[0]
				for _, b := range g[1:] {
					if policy == GroupFirstNeighbor && !IsOverlapping(seed, b) {
						t.Errorf("group %d: %s does not overlap seed %s", gi, b.ID, seed.ID)
					}
				}
			}
			for _, b := range sampleDay() {
				if seen[b.ID] != 1 {
					t.Errorf("%s appears in %d groups, want 1", b.ID, seen[b.ID])
				}
			}

			if policy != GroupConnected {
				return
			}
			for i := range groups {
				for j := i + 1; j < len(groups); j++ {
					for _, a := range groups[i] {
						for _, b := range groups[j] {
							if IsOverlapping(a, b) {
								t.Errorf("%s and %s overlap across groups", a.ID, b.ID)
							}
						}
					}
				}
			}
		})
	}
}

func TestGroupConnected_CoarsensFirstNeighbor(t *testing.T) {
	fine := GroupOverlapping(sampleDay(), GroupFirstNeighbor)
	coarse := GroupOverlapping(sampleDay(), GroupConnected)

	owner := map[string]int{}
	for i, g := range coarse {
		for _, b := range g {
			owner[b.ID] = i
		}
	}
	for _, g := range fine {
		for _, b := range g[1:] {
			if owner[b.ID] != owner[g[0].ID] {
				t.Errorf("%s split from %s under connected grouping", b.ID, g[0].ID)
			}
		}
	}
	if len(coarse) > len(fine) {
		t.Errorf("connected produced %d groups, first-neighbor %d", len(coarse), len(fine))
	}
}

func TestForDay(t *testing.T) {
	other := bk("other", 9, 0, 10, 0)
	other.Start = other.Start.AddDate(0, 0, 1)
	other.End = other.End.AddDate(0, 0, 1)

	got := ForDay([]booking.Booking{bk("a", 9, 0, 10, 0), other, bk("b", 11, 0, 12, 0)}, testDay)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("ForDay() = %v", ids([][]booking.Booking{got}))
	}
}

func TestParsePolicies(t *testing.T) {
	if p, err := ParseGroupPolicy("connected"); err != nil || p != GroupConnected {
		t.Errorf("ParseGroupPolicy(connected) = %v, %v", p, err)
	}
	if p, err := ParseGroupPolicy(""); err != nil || p != GroupFirstNeighbor {
		t.Errorf("ParseGroupPolicy(\"\") = %v, %v", p, err)
	}
	if _, err := ParseGroupPolicy("greedy"); err == nil {
		t.Error("expected error for unknown grouping")
	}
	if p, err := ParseColumnPolicy("packed"); err != nil || p != ColumnsPacked {
		t.Errorf("ParseColumnPolicy(packed) = %v, %v", p, err)
	}
	if _, err := ParseColumnPolicy("tight"); err == nil {
		t.Error("expected error for unknown column policy")
	}
}
