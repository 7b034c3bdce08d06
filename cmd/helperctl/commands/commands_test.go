package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benvon/homework-helper/internal/models"
	"github.com/spf13/cobra"
)

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/homework", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, []models.HomeworkItem{
			{ID: 1, Text: "Essay", Category: "English", DueDate: "2024-06-01"},
			{ID: 2, Text: "Worksheet", Completed: true},
		})
	})
	mux.HandleFunc("POST /api/v1/homework", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeData(w, http.StatusCreated, models.HomeworkItem{ID: 3, Text: req["text"], Category: req["category"]})
	})
	mux.HandleFunc("DELETE /api/v1/homework/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":"Not Found","message":"Homework item not found"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/v1/chat/messages", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"error":"Conflict","message":"busy"}`))
	})
	mux.HandleFunc("GET /api/v1/chat/messages", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]any{
			"messages": []models.ChatMessage{
				{Role: models.MessageRoleUser, Text: "help"},
				{Role: models.MessageRoleModel, Text: "Sure!"},
			},
			"busy": false,
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	opts := &Options{}
	root := &cobra.Command{Use: "helperctl", SilenceUsage: true, SilenceErrors: true}
	opts.BindFlags(root)
	root.AddCommand(NewHomeworkCmd(opts), NewChatCmd(opts))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", server}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHomeworkCommands(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	out, err := run(t, server.URL, "homework", "list")
	if err != nil {
		t.Fatalf("homework list error = %v", err)
	}
	want := "1 [ ] Essay #English (due 2024-06-01)\n2 [x] Worksheet\n"
	if out != want {
		t.Errorf("homework list output =\n%q\nwant\n%q", out, want)
	}

	out, err = run(t, server.URL, "homework", "add", "Read", "chapter", "3", "--category", "History")
	if err != nil {
		t.Fatalf("homework add error = %v", err)
	}
	if out != "3 [ ] Read chapter 3 #History\n" {
		t.Errorf("Unexpected add output %q", out)
	}

	if _, err := run(t, server.URL, "homework", "delete", "1"); err != nil {
		t.Errorf("homework delete error = %v", err)
	}
	if _, err := run(t, server.URL, "homework", "delete", "9"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected 404 error for absent id, got %v", err)
	}
	if _, err := run(t, server.URL, "homework", "toggle", "abc"); err == nil {
		t.Error("Expected error for non-numeric id")
	}
}

func TestChatCommands(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	out, err := run(t, server.URL, "chat", "history")
	if err != nil {
		t.Fatalf("chat history error = %v", err)
	}
	if out != "you: help\nassistant: Sure!\n" {
		t.Errorf("Unexpected history output %q", out)
	}

	_, err = run(t, server.URL, "chat", "send", "again")
	if err == nil || !strings.Contains(err.Error(), "still answering") {
		t.Errorf("Expected busy error, got %v", err)
	}
}
