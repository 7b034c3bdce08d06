package ai

import (
	"strings"
	"testing"

	"github.com/benvon/homework-helper/internal/models"
)

func TestBuildAugmentedMessage_NoTasks(t *testing.T) {
	t.Parallel()

	got := BuildAugmentedMessage("How do I start?", nil)

	if got != "My question is: How do I start?" {
		t.Errorf("Unexpected message %q", got)
	}
	if strings.Contains(got, "--- Current Homework ---") || strings.Contains(got, "-----------------------") {
		t.Error("Expected no homework block delimiters for an empty list")
	}
}

func TestBuildAugmentedMessage_WithTasks(t *testing.T) {
	t.Parallel()

	items := []models.HomeworkItem{
		{ID: 1, Text: "Essay", DueDate: "2024-06-01", Category: "English"},
		{ID: 2, Text: "Worksheet", Completed: true},
		{ID: 3, Text: "Lab report", Category: "Chemistry"},
	}

	got := BuildAugmentedMessage("What first?", items)

	want := "\n\n--- Current Homework ---\n" +
		"[ ] [English] Essay (Due: 2024-06-01)\n" +
		"[x] Worksheet\n" +
		"[ ] [Chemistry] Lab report\n" +
		"-----------------------\n\n" +
		"My question is: What first?"
	if got != want {
		t.Errorf("BuildAugmentedMessage() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatHomeworkContext_OneLinePerTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []models.HomeworkItem
	}{
		{"single", []models.HomeworkItem{{Text: "A"}}},
		{"mixed", []models.HomeworkItem{{Text: "A"}, {Text: "B", Completed: true}, {Text: "C", Category: "Art"}}},
		{"due dates", []models.HomeworkItem{{Text: "A", DueDate: "2024-01-01"}, {Text: "B", DueDate: "2024-01-02", Completed: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			block := FormatHomeworkContext(tt.items)
			if strings.Count(block, "--- Current Homework ---") != 1 {
				t.Fatalf("Expected exactly one header, got %q", block)
			}

			taskLines := 0
			for _, line := range strings.Split(block, "\n") {
				if strings.HasPrefix(line, "[x] ") || strings.HasPrefix(line, "[ ] ") {
					taskLines++
				}
			}
			if taskLines != len(tt.items) {
				t.Errorf("Expected %d task lines, got %d in %q", len(tt.items), taskLines, block)
			}
		})
	}
}

func TestFormatHomeworkLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item models.HomeworkItem
		want string
	}{
		{"plain", models.HomeworkItem{Text: "Read"}, "[ ] Read"},
		{"completed", models.HomeworkItem{Text: "Read", Completed: true}, "[x] Read"},
		{"category", models.HomeworkItem{Text: "Read", Category: "History"}, "[ ] [History] Read"},
		{"due", models.HomeworkItem{Text: "Read", DueDate: "2024-06-01"}, "[ ] Read (Due: 2024-06-01)"},
		{"everything", models.HomeworkItem{Text: "Read", Category: "History", DueDate: "2024-06-01", Completed: true}, "[x] [History] Read (Due: 2024-06-01)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatHomeworkLine(tt.item); got != tt.want {
				t.Errorf("formatHomeworkLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
