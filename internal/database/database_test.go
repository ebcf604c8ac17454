package database

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
)

func TestSponsorStatusParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected SponsorStatus
		wantErr  bool
	}{
		{"active", SponsorActive, false},
		{"ACTIVE", SponsorActive, false},
		{"Pending", SponsorPending, false},
		{"", SponsorPending, false},
		{"inactive", SponsorInactive, false},
		{" suspended ", SponsorSuspended, false},
		{"archived", SponsorPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSponsorStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSponsorStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseSponsorStatus(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRequirementStatusParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected RequirementStatus
		wantErr  bool
	}{
		{"pending", RequirementPending, false},
		{"in-progress", RequirementInProgress, false},
		{"IN_PROGRESS", RequirementInProgress, false},
		{"completed", RequirementCompleted, false},
		{"Overdue", RequirementOverdue, false},
		{"", RequirementPending, false},
		{"done", RequirementPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRequirementStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseRequirementStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseRequirementStatus(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPriorityParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected Priority
		wantErr  bool
	}{
		{"high", PriorityHigh, false},
		{"HIGH", PriorityHigh, false},
		{"medium", PriorityMedium, false},
		{"", PriorityMedium, false},
		{"low", PriorityLow, false},
		{"P0", PriorityMedium, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePriority(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParsePriority(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPriorityWeight(t *testing.T) {
	if !(PriorityLow.Weight() < PriorityMedium.Weight() && PriorityMedium.Weight() < PriorityHigh.Weight()) {
		t.Errorf("weights not increasing: low=%d medium=%d high=%d",
			PriorityLow.Weight(), PriorityMedium.Weight(), PriorityHigh.Weight())
	}
}

func TestStringSet(t *testing.T) {
	s := NewStringSet("b", "a", " ", "c")
	if s.Len() != 3 {
		t.Errorf("NewStringSet: expected 3 items, got %d", s.Len())
	}
	if got := s.String(); got != "a|b|c" {
		t.Errorf("String() = %q, want a|b|c", got)
	}

	s.Toggle("a")
	if s.Contains("a") {
		t.Error("Toggle should remove a present item")
	}
	s.Toggle("d")
	if !s.Contains("d") {
		t.Error("Toggle should add an absent item")
	}

	if !s.ContainsAny("x", "d") {
		t.Error("ContainsAny should find d")
	}
	if s.ContainsAny("x", "y") {
		t.Error("ContainsAny should not match x or y")
	}

	c := s.Clone()
	c.Add("z")
	if s.Contains("z") {
		t.Error("Clone should be independent")
	}

	parsed := ParseStringSet("a, b|c")
	if parsed.String() != "a|b|c" {
		t.Errorf("ParseStringSet = %q, want a|b|c", parsed.String())
	}
}

type rec struct {
	id   string
	name string
}

func recKey(r rec) string { return r.id }

func TestStoreOrderAndLookup(t *testing.T) {
	s, err := NewStore(recKey, rec{"a", "A"}, rec{"b", "B"})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if err := s.Prepend(rec{"c", "C"}); err != nil {
		t.Fatalf("Prepend failed: %v", err)
	}
	if err := s.Append(rec{"d", "D"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if got := strings.Join(s.IDs(), ","); got != "c,a,b,d" {
		t.Errorf("IDs() = %s, want c,a,b,d", got)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}

	r, ok := s.Get("a")
	if !ok || r.name != "A" {
		t.Errorf("Get(a) = %+v, %v", r, ok)
	}
	if _, ok := s.Get("zz"); ok {
		t.Error("Get(zz) should miss")
	}
}

func TestStoreDuplicateAndRetiredIDs(t *testing.T) {
	s, _ := NewStore(recKey, rec{"a", "A"})

	if err := s.Append(rec{"a", "again"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Append duplicate error = %v, want ErrDuplicateID", err)
	}

	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !s.IsRetired("a") {
		t.Error("removed id should be retired")
	}
	if err := s.Prepend(rec{"a", "reborn"}); !errors.Is(err, ErrRetiredID) {
		t.Errorf("Prepend retired error = %v, want ErrRetiredID", err)
	}
	if err := s.Remove("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove missing error = %v, want ErrNotFound", err)
	}

	if _, err := NewStore(recKey, rec{"x", "1"}, rec{"x", "2"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("NewStore with duplicates error = %v, want ErrDuplicateID", err)
	}
}

func TestStoreUpdate(t *testing.T) {
	s, _ := NewStore(recKey, rec{"a", "A"}, rec{"b", "B"})

	err := s.Update("b", func(r rec) rec {
		r.name = "Bee"
		return r
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if r, _ := s.Get("b"); r.name != "Bee" {
		t.Errorf("Update not applied: %+v", r)
	}
	if got := strings.Join(s.IDs(), ","); got != "a,b" {
		t.Errorf("Update moved record: %s", got)
	}

	if err := s.Update("zz", func(r rec) rec { return r }); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing error = %v, want ErrNotFound", err)
	}
	if err := s.Update("a", func(r rec) rec { r.id = "q"; return r }); err == nil {
		t.Error("Update changing id should fail")
	}
}

func TestStoreRemoveAll(t *testing.T) {
	s, _ := NewStore(recKey, rec{"a", ""}, rec{"b", ""}, rec{"c", ""}, rec{"d", ""})

	n := s.RemoveAll([]string{"b", "d", "missing"})
	if n != 2 {
		t.Errorf("RemoveAll = %d, want 2", n)
	}
	if got := strings.Join(s.IDs(), ","); got != "a,c" {
		t.Errorf("IDs() = %s, want a,c", got)
	}
	if n := s.RemoveAll(nil); n != 0 {
		t.Errorf("RemoveAll(nil) = %d, want 0", n)
	}
}

func TestRoundedMean(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{"empty", nil, 0},
		{"single", []int{42}, 42},
		{"round down", []int{1, 2}, 2},
		{"exact", []int{10, 20, 30}, 20},
		{"sponsor seed", []int{92, 88, 45, 95, 78, 90, 94, 60}, 80},
		{"requirement seed", []int{65, 0, 40, 30, 0, 100}, 39},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundedMean(tt.values); got != tt.want {
				t.Errorf("RoundedMean(%v) = %d, want %d", tt.values, got, tt.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	seed := DefaultSeed()

	ss := SponsorStats(seed.Sponsors)
	if ss.Total != 8 || ss.Active != 5 || ss.PendingOnboarding != 2 || ss.CompletionRate != 80 {
		t.Errorf("SponsorStats = %+v", ss)
	}

	rs := RequirementStats(seed.Requirements)
	want := RequirementSummary{Total: 6, Pending: 2, InProgress: 2, Completed: 1, Overdue: 1, AvgCompletion: 39}
	if rs != want {
		t.Errorf("RequirementStats = %+v, want %+v", rs, want)
	}

	if empty := RequirementStats(nil); empty.AvgCompletion != 0 || empty.Total != 0 {
		t.Errorf("RequirementStats(nil) = %+v", empty)
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"12/31/2024", "2024-12-31", " 12/31/2024 "} {
		d, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q) failed: %v", in, err)
			continue
		}
		if FormatDate(d) != "12/31/2024" {
			t.Errorf("FormatDate(ParseDate(%q)) = %s", in, FormatDate(d))
		}
	}
	if _, err := ParseDate("tomorrow"); err == nil {
		t.Error("ParseDate(tomorrow) should fail")
	}
}

func TestRequirementHelpers(t *testing.T) {
	req := DefaultSeed().Requirements[0]

	if got := strings.Join(req.SponsorIDs(), ","); got != "sp1,sp2" {
		t.Errorf("SponsorIDs() = %s", got)
	}
	if req.OutstandingDocuments() != 1 {
		t.Errorf("OutstandingDocuments() = %d, want 1", req.OutstandingDocuments())
	}

	over := req
	over.SubmittedDocuments = 9
	if over.OutstandingDocuments() != 0 {
		t.Error("over-submitted requirement should have no outstanding documents")
	}

	clone := req.Clone()
	clone.AssignedSponsors[0].Name = "changed"
	if req.AssignedSponsors[0].Name == "changed" {
		t.Error("Clone should not share assigned sponsors")
	}

	if !IsRequirementType("tax filing") || IsRequirementType("Memo") {
		t.Error("IsRequirementType mismatch")
	}
}

func TestWriteSponsorsCSV(t *testing.T) {
	var buf bytes.Buffer
	sponsors := DefaultSeed().Sponsors[:2]
	if err := WriteSponsorsCSV(&buf, sponsors); err != nil {
		t.Fatalf("WriteSponsorsCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV unreadable: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[1][1] != "Acme Corporation" {
		t.Errorf("unexpected CSV content: %v", records[:2])
	}
	// Address contains commas and must stay one field.
	if records[1][8] != "123 Business Ave, New York, NY 10001" {
		t.Errorf("address column = %q", records[1][8])
	}
}

func TestWriteRequirementsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRequirementsCSV(&buf, DefaultSeed().Requirements); err != nil {
		t.Fatalf("WriteRequirementsCSV failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "id,title,description,type,assigned_sponsors") {
		t.Errorf("unexpected header: %s", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "req1,Q4 2024 Financial Statement") || !strings.Contains(out, "sp1|sp2") {
		t.Errorf("missing req1 row:\n%s", out)
	}
}
