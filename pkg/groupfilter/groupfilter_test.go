// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package groupfilter

import "testing"

func TestParse(t *testing.T) {
	selects, err := Parse([]string{"-@special", "+test", "+doc", "+feature@dep", "-doc"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(selects) != 5 {
		t.Fatalf("len(selects) = %d, want 5", len(selects))
	}
	if selects[0].Group != "" || selects[0].Select || selects[0].Path != "special" {
		t.Errorf("selects[0] = %+v, want {Group:\"\" Select:false Path:special}", selects[0])
	}
	if selects[3].Group != "feature" || !selects[3].Select || selects[3].Path != "dep" {
		t.Errorf("selects[3] = %+v, want {Group:feature Select:true Path:dep}", selects[3])
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]string{"bogus"}); err == nil {
		t.Fatal("expected error for filter without +/- prefix")
	}
}

// TestTruthTable is the exact table from spec §8 invariant 5, matching the
// upstream tool's own doctest for its group-filter evaluator.
func TestTruthTable(t *testing.T) {
	selects, err := Parse([]string{"-@special", "+test", "+doc", "+feature@dep", "-doc"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	t.Run("default=false", func(t *testing.T) {
		f := New(selects, false)
		cases := []struct {
			path   string
			groups []string
			want   bool
		}{
			{"sub", nil, true},
			{"sub", []string{"foo", "bar"}, false},
			{"sub", []string{"test"}, true},
			{"sub", []string{"doc"}, false},
			{"sub", []string{"test", "doc"}, true},
			{"sub", []string{"feature"}, false},
			{"dep", []string{"feature"}, true},
			{"special", nil, false},
			{"special", []string{"foo", "bar"}, false},
			{"special", []string{"test", "bar"}, true},
		}
		for _, c := range cases {
			if got := f(c.path, c.groups); got != c.want {
				t.Errorf("f(%q, %v) = %v, want %v", c.path, c.groups, got, c.want)
			}
		}
	})

	t.Run("default=true", func(t *testing.T) {
		f := New(selects, true)
		cases := []struct {
			path   string
			groups []string
			want   bool
		}{
			{"sub", nil, true},
			{"sub", []string{"foo", "bar"}, true},
			{"sub", []string{"test"}, true},
			{"sub", []string{"doc"}, false},
			{"sub", []string{"test", "doc"}, true},
			{"sub", []string{"feature"}, true},
			{"dep", []string{"feature"}, true},
			{"special", nil, false},
			{"special", []string{"foo", "bar"}, false},
			{"special", []string{"test", "bar"}, true},
		}
		for _, c := range cases {
			if got := f(c.path, c.groups); got != c.want {
				t.Errorf("f(%q, %v) = %v, want %v", c.path, c.groups, got, c.want)
			}
		}
	})
}

func TestFromGroups(t *testing.T) {
	selects := FromGroups([]string{"a", "", "b"})
	if len(selects) != 2 {
		t.Fatalf("len(selects) = %d, want 2 (empty group name filtered out)", len(selects))
	}
	for _, s := range selects {
		if !s.Select {
			t.Errorf("FromGroups should always select: %+v", s)
		}
	}
}
