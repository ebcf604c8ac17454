package database

import (
	"testing"
)

// FuzzParseSeed tests seed parsing with random input.
func FuzzParseSeed(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("sponsors: []\n"))
	f.Add([]byte("requirements:\n  - id: r1\n    assigned_sponsors:\n      - id: sp1\n"))
	f.Add([]byte("requirements:\n  - id: r1\n    assigned_sponsors:\n      - id: nobody\n"))
	f.Add([]byte("sponsors: [{id: 1, name: x, status: active}]"))
	f.Add([]byte("\x00\x01"))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic
		seed, err := ParseSeed(data)
		if err != nil {
			return
		}
		if len(seed.Sponsors) == 0 || len(seed.Requirements) == 0 || seed.Review == nil {
			t.Errorf("ParseSeed returned empty sections without error")
		}
	})
}

// FuzzParseDate tests date parsing with random input.
func FuzzParseDate(f *testing.F) {
	f.Add("12/31/2024")
	f.Add("2024-12-31")
	f.Add("1/2/2006")
	f.Add("")
	f.Add("13/45/2024")

	f.Fuzz(func(t *testing.T, input string) {
		d, err := ParseDate(input)
		if err != nil {
			return
		}
		again, err := ParseDate(FormatDate(d))
		if err != nil {
			t.Errorf("ParseDate(FormatDate(%v)) failed: %v", d, err)
			return
		}
		if !again.Equal(d) {
			t.Errorf("date round trip changed %v to %v", d, again)
		}
	})
}

// FuzzParseRequirementStatus tests status parsing with random input.
func FuzzParseRequirementStatus(f *testing.F) {
	for _, s := range AllRequirementStatuses() {
		f.Add(s.String())
	}
	f.Add("IN_PROGRESS")
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		status, err := ParseRequirementStatus(input)
		if err == nil {
			valid := false
			for _, s := range AllRequirementStatuses() {
				if status == s {
					valid = true
					break
				}
			}
			if !valid {
				t.Errorf("ParseRequirementStatus(%q) returned invalid status: %v", input, status)
			}
		}
	})
}

// FuzzParsePriority tests priority parsing with random input.
func FuzzParsePriority(f *testing.F) {
	for _, p := range AllPriorities() {
		f.Add(p.String())
	}
	f.Add("HIGH")
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		priority, err := ParsePriority(input)
		if err == nil && priority.Weight() == 0 {
			t.Errorf("ParsePriority(%q) returned unweighted priority: %v", input, priority)
		}
	})
}
