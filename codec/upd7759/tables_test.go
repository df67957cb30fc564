/*
NAME
  tables_test.go

DESCRIPTION
  tables_test.go pins the uPD7759 decode tables against known checksums.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package upd7759

import "testing"

// TestStepTableChecksum guards the step table against accidental edits:
// every row is antisymmetric (nibbles 8..15 negate 0..7, so rows sum to
// zero) and the per-row absolute sums are pinned.
func TestStepTableChecksum(t *testing.T) {
	wantAbs := [16]int{56, 74, 88, 110, 134, 170, 198, 258, 314, 386, 462, 582, 712, 870, 1066, 1308}

	for i, row := range stepTable {
		sum, abs := 0, 0
		for _, d := range row {
			sum += int(d)
			if d < 0 {
				abs -= int(d)
			} else {
				abs += int(d)
			}
		}
		if sum != 0 {
			t.Errorf("row %d sums to %d, want 0", i, sum)
		}
		if abs != wantAbs[i] {
			t.Errorf("row %d absolute sum = %d, want %d", i, abs, wantAbs[i])
		}
		for v := 0; v < 8; v++ {
			if row[v+8] != -row[v] {
				t.Errorf("row %d: entry %d = %d, want %d", i, v+8, row[v+8], -row[v])
			}
		}
	}

	spots := []struct {
		r, c int
		want int16
	}{
		{0, 0, 0}, {0, 7, 10}, {7, 0, 1}, {7, 8, -1}, {15, 7, 214}, {15, 15, -214},
	}
	for _, s := range spots {
		if got := stepTable[s.r][s.c]; got != s.want {
			t.Errorf("stepTable[%d][%d] = %d, want %d", s.r, s.c, got, s.want)
		}
	}
}

func TestStateTable(t *testing.T) {
	want := [16]int8{-1, -1, 0, 0, 1, 2, 2, 3, -1, -1, 0, 0, 1, 2, 2, 3}
	if stateTable != want {
		t.Errorf("stateTable = %v, want %v", stateTable, want)
	}
}
