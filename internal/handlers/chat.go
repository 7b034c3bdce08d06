package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/benvon/homework-helper/internal/models"
	"github.com/benvon/homework-helper/internal/request"
	"github.com/benvon/homework-helper/internal/services/ai"
	"github.com/benvon/homework-helper/internal/validation"
	"github.com/benvon/homework-helper/internal/workspace"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Conversation is the part of ai.ConversationClient the chat routes use
type Conversation interface {
	GetInitialMessage(ctx context.Context) string
	SendMessage(ctx context.Context, rawUserText string, tasks []models.HomeworkItem) (string, error)
	InFlight() bool
}

// ChatHandler serves the chat panel: greeting, turns and the transcript
type ChatHandler struct {
	conversation Conversation
	workspace    *workspace.Workspace
	logger       *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(conversation Conversation, ws *workspace.Workspace, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		conversation: conversation,
		workspace:    ws,
		logger:       logger,
	}
}

// RegisterRoutes registers chat routes on a router already prefixed with /chat
func (h *ChatHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/greeting", h.Greeting).Methods("POST")
	r.HandleFunc("/messages", h.SendMessage).Methods("POST")
	r.HandleFunc("/messages", h.History).Methods("GET")
}

// ChatMessageRequest represents a chat message request
type ChatMessageRequest struct {
	Message string `json:"message" validate:"notblank,max=10000"`
}

// ChatReply is returned for a completed turn
type ChatReply struct {
	Reply models.ChatMessage `json:"reply"`
}

// ChatHistory is the transcript plus whether a turn is outstanding
type ChatHistory struct {
	Messages []models.ChatMessage `json:"messages"`
	Busy     bool                 `json:"busy"`
}

// Greeting asks for the opening message and appends it to the transcript.
// It always succeeds; failures produce the fallback greeting.
func (h *ChatHandler) Greeting(w http.ResponseWriter, r *http.Request) {
	ctx := h.providerContext(r)
	message := models.ChatMessage{
		Role: models.MessageRoleModel,
		Text: h.conversation.GetInitialMessage(ctx),
	}
	h.workspace.Transcript.Append(message)
	respondJSON(w, http.StatusOK, ChatReply{Reply: message})
}

// SendMessage runs one chat turn. The homework list is snapshotted when the
// request arrives. A failed turn still records the question, followed by an
// apology from the model.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	tasks := h.workspace.Homework.List()
	userMessage := models.ChatMessage{Role: models.MessageRoleUser, Text: req.Message}

	reply, err := h.conversation.SendMessage(h.providerContext(r), req.Message, tasks)
	switch {
	case errors.Is(err, ai.ErrRequestInFlight):
		respondJSONError(w, http.StatusConflict, "Conflict", "A message is already being answered, wait for the reply")
		return
	case err != nil:
		h.logger.Error("chat_turn_failed",
			zap.String("request_id", request.RequestID(r)),
			zap.Bool("configuration_error", ai.IsConfigurationError(err)),
			zap.Bool("rate_limited", ai.IsRateLimitError(err)),
			zap.Error(err),
		)
		h.workspace.Transcript.Append(userMessage, models.ChatMessage{Role: models.MessageRoleModel, Text: ai.ApologyMessage})
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", ai.ApologyMessage)
		return
	}

	modelMessage := models.ChatMessage{Role: models.MessageRoleModel, Text: reply}
	h.workspace.Transcript.Append(userMessage, modelMessage)
	respondJSON(w, http.StatusOK, ChatReply{Reply: modelMessage})
}

// History returns the transcript
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ChatHistory{
		Messages: h.workspace.Transcript.Messages(),
		Busy:     h.conversation.InFlight(),
	})
}

// providerContext detaches the provider call from client disconnects so an
// issued turn runs to completion, and carries the request ID into AI logs.
func (h *ChatHandler) providerContext(r *http.Request) context.Context {
	ctx := context.WithoutCancel(r.Context())
	return ai.WithRequestID(ctx, request.RequestID(r))
}
