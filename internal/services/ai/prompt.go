package ai

import (
	"strings"

	"github.com/benvon/homework-helper/internal/models"
)

const (
	// SystemInstruction is sent with every request, one-shot or session
	SystemInstruction = "You are a student's study assistant. A homework list is provided with each question for context. Use it to give specific advice, help prioritize tasks, and provide motivation. Keep your answers concise and encouraging."

	// GreetingPrompt asks the model for the opening message of the chat panel
	GreetingPrompt = "Start the conversation by gently reminding a student about their homework in a fun and supportive way. The student just opened their laptop."

	// FallbackGreeting is returned when the greeting cannot be generated
	FallbackGreeting = "Hey there! 👋 Just a friendly reminder to check on your homework. You've got this! What can I help you with today?"

	// ApologyMessage is shown in the transcript when a reply could not be produced
	ApologyMessage = "Sorry, I encountered an error. Please try again."

	homeworkBlockHeader = "\n\n--- Current Homework ---\n"
	homeworkBlockFooter = "\n-----------------------\n\n"
	questionPrefix      = "My question is: "
)

// BuildAugmentedMessage prepends a snapshot of the homework list to the
// user's question. With no items the question is sent without a block.
func BuildAugmentedMessage(question string, items []models.HomeworkItem) string {
	return FormatHomeworkContext(items) + questionPrefix + question
}

// FormatHomeworkContext renders the homework block, or "" for an empty list
func FormatHomeworkContext(items []models.HomeworkItem) string {
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, formatHomeworkLine(item))
	}

	var b strings.Builder
	b.WriteString(homeworkBlockHeader)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString(homeworkBlockFooter)
	return b.String()
}

// formatHomeworkLine renders "[x] [Category] text (Due: date)"
func formatHomeworkLine(item models.HomeworkItem) string {
	var b strings.Builder
	if item.Completed {
		b.WriteString("[x]")
	} else {
		b.WriteString("[ ]")
	}
	if item.Category != "" {
		b.WriteString(" [")
		b.WriteString(item.Category)
		b.WriteString("]")
	}
	b.WriteString(" ")
	b.WriteString(item.Text)
	if item.DueDate != "" {
		b.WriteString(" (Due: ")
		b.WriteString(item.DueDate)
		b.WriteString(")")
	}
	return b.String()
}
