package slurm

import "testing"

func TestCompactState(t *testing.T) {
	cases := []struct {
		state string
		want  string
	}{
		{"RUNNING", "R"},
		{"PENDING", "PD"},
		{"COMPLETED", "CD"},
		{"CANCELLED", "CA"},
		{"FAILED", "F"},
		{"TIMEOUT", "TO"},
		{"NODE_FAIL", "NF"},
		{"PREEMPTED", "PR"},
		{"SUSPENDED", "S"},
		// Unknown states pass through verbatim.
		{"BOOT_FAIL", "BOOT_FAIL"},
		{"OUT_OF_MEMORY", "OUT_OF_MEMORY"},
	}
	for _, c := range cases {
		if got := compactState(c.state); got != c.want {
			t.Fatalf("compactState(%q) = %q, want %q", c.state, got, c.want)
		}
	}
}

func TestSplitArrayID(t *testing.T) {
	id, step := splitArrayID("123_4")
	if id != "123" || step == nil || *step != "4" {
		t.Fatalf("splitArrayID(123_4) = %q, %v", id, step)
	}

	id, step = splitArrayID("555")
	if id != "555" || step != nil {
		t.Fatalf("splitArrayID(555) = %q, %v", id, step)
	}

	// Degenerate composites are treated as plain ids.
	for _, raw := range []string{"1_2_3", "_7", "9_", "_"} {
		id, step = splitArrayID(raw)
		if id != raw || step != nil {
			t.Fatalf("splitArrayID(%q) = %q, %v; want identity", raw, id, step)
		}
	}
}
