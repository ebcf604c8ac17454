package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable("Name", "Status")
	table.AddRow("Acme Corporation", "Active")
	table.AddRow("TechStart Solutions")
	table.AddRow("a", "b", "dropped")

	if table.Len() != 3 {
		t.Errorf("Expected 3 rows, got %d", table.Len())
	}
	if table.rows[1][1] != "" {
		t.Errorf("missing cell should be blank, got %q", table.rows[1][1])
	}
	if len(table.rows[2]) != 2 {
		t.Errorf("extra cells should be dropped, got %v", table.rows[2])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable("#", "ID", "Rate")
	table.AddRow("1", "req1", "65%")
	table.AddRow("2", "req4", "30%")

	output := table.Render()

	for _, element := range []string{
		"+---+------+------+",
		"| # | ID   | Rate |",
		"+===+======+======+",
		"| 1 | req1 | 65%  |",
		"| 2 | req4 | 30%  |",
	} {
		if !strings.Contains(output, element) {
			t.Errorf("Expected %q in output:\n%s", element, output)
		}
	}
	if lines := strings.Split(strings.TrimSpace(output), "\n"); len(lines) != 7 {
		t.Errorf("Expected 7 lines for ruled table, got %d:\n%s", len(lines), output)
	}
}

func TestTableRenderCompact(t *testing.T) {
	table := NewTable("A", "B")
	table.AddRow("1", "2")
	table.AddRow("3", "4")

	lines := strings.Split(strings.TrimSpace(table.RenderCompact()), "\n")
	// top border, header, header sep, two rows, bottom border
	if len(lines) != 6 {
		t.Errorf("Expected 6 lines for compact table, got %d", len(lines))
	}
}

func TestTableAlignRight(t *testing.T) {
	table := NewTable("Name", "Plans").AlignRight(1, 7)
	table.AddRow("Acme", "3")
	table.AddRow("Global", "12")

	output := table.RenderCompact()
	if !strings.Contains(output, "| Acme   |     3 |") {
		t.Errorf("right-aligned cell missing:\n%s", output)
	}
}

func TestTableWriteTo(t *testing.T) {
	table := NewTable("A")
	table.AddRow("x")

	var buf bytes.Buffer
	n, err := table.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) || buf.String() != table.RenderCompact() {
		t.Errorf("WriteTo wrote %d bytes: %q", n, buf.String())
	}
}

func TestEmptyTable(t *testing.T) {
	if got := NewTable().Render(); got != "" {
		t.Errorf("table without headers should render empty, got %q", got)
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"hello", 5},
		{"✓", 1},
		{"éclair", 6},
		{"\033[32mgreen\033[0m", 5},
		{"", 0},
	}

	for _, tt := range tests {
		got := displayWidth(tt.input)
		if got != tt.expected {
			t.Errorf("displayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"\033[32mgreen\033[0m", "green"},
		{"\033[1;31mred bold\033[0m", "red bold"},
	}

	for _, tt := range tests {
		got := stripANSI(tt.input)
		if got != tt.expected {
			t.Errorf("stripANSI(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		expected string
	}{
		{"hello", 10, "hello"},
		{"Annual Compliance Audit Report", 12, "Annual Co..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"\033[31mOverdue\033[0m", 7, "\033[31mOverdue\033[0m"},
		{"\033[31mOverdue\033[0m", 5, "Ov..."},
	}

	for _, tt := range tests {
		got := TruncateCell(tt.input, tt.maxWidth)
		if got != tt.expected {
			t.Errorf("TruncateCell(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
		}
	}
}
