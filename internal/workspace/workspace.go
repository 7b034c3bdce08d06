// Package workspace is the process-wide state shared by the homework list
// and the chat panel.
package workspace

import (
	"sync"

	"github.com/benvon/homework-helper/internal/homework"
	"github.com/benvon/homework-helper/internal/models"
)

// Workspace groups the homework store and the chat transcript
type Workspace struct {
	Homework   *homework.Store
	Transcript *Transcript
}

// New creates an empty workspace
func New() *Workspace {
	return &Workspace{
		Homework:   homework.NewStore(),
		Transcript: NewTranscript(),
	}
}

// Transcript is the append-only chat log
type Transcript struct {
	mu       sync.RWMutex
	messages []models.ChatMessage
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds messages to the end of the transcript in one step
func (t *Transcript) Append(messages ...models.ChatMessage) {
	if len(messages) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, messages...)
}

// Prepend puts messages ahead of everything already recorded. The startup
// greeting uses it so it opens the transcript even when a turn finished first.
func (t *Transcript) Prepend(messages ...models.ChatMessage) {
	if len(messages) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	next := make([]models.ChatMessage, 0, len(messages)+len(t.messages))
	next = append(next, messages...)
	t.messages = append(next, t.messages...)
}

// Messages returns a copy of the transcript
func (t *Transcript) Messages() []models.ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
