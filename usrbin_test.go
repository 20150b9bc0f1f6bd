package usrbin

import (
	"testing"
)

func testDataset() *Dataset {
	names := []string{"Dose", "EneDep", "Neutrons", "Dose"}
	ds := &Dataset{Summary: testSummary()}
	for i, name := range names {
		d := testDetector(name, int32(i+1), [3]int{1, 1, 1}, int64(i), false)
		d.Summary = ds.Summary
		ds.Detectors = append(ds.Detectors, d)
	}
	return ds
}

func TestFind(t *testing.T) {
	ds := testDataset()

	tests := []struct {
		name  string
		index int32
	}{
		{"Dose", 1},
		{"EneDep", 2},
		{"Neutrons", 3},
		{"Photons", -1},
		{"dose", -1},
	}

	for i := range tests {
		d := ds.Find(tests[i].name)
		switch {
		case tests[i].index == -1 && d != nil:
			t.Errorf("%d) Expected no detector named '%s'.", i, tests[i].name)
		case tests[i].index != -1 && d == nil:
			t.Errorf("%d) Expected a detector named '%s'.", i, tests[i].name)
		case d != nil && d.Header.Index != tests[i].index:
			t.Errorf("%d) Expected '%s' to be detector %d, got %d.",
				i, tests[i].name, tests[i].index, d.Header.Index)
		}
	}
}

func TestSelect(t *testing.T) {
	ds := testDataset()

	tests := []struct {
		seq     string
		indices []int32
		valid   bool
	}{
		{"0", []int32{1}, true},
		{"0..3", []int32{1, 2, 3, 4}, true},
		{"0..3 - 1", []int32{1, 3, 4}, true},
		{"3 + 0", []int32{1, 4}, true},
		{"4", nil, false},
		{"0..9", nil, false},
		{"0 +", nil, false},
		{"cat", nil, false},
	}

	for i := range tests {
		dets, err := ds.Select(tests[i].seq)
		if !tests[i].valid {
			if err == nil {
				t.Errorf("%d) Expected '%s' to fail.", i, tests[i].seq)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d) Unexpected error: %s", i, err.Error())
			continue
		}

		if len(dets) != len(tests[i].indices) {
			t.Errorf("%d) Expected %d detectors, got %d.",
				i, len(tests[i].indices), len(dets))
			continue
		}
		for j := range dets {
			if dets[j].Header.Index != tests[i].indices[j] {
				t.Errorf("%d) Expected detector %d at position %d, got %d.",
					i, tests[i].indices[j], j, dets[j].Header.Index)
			}
		}
	}
}
