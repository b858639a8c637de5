package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogsCommandTree(t *testing.T) {
	base := func() string { return "http://127.0.0.1:0" }
	logsCmd := NewLogsCommand(base)
	want := map[string]bool{"linecount": false, "activity": false, "unique": false, "seen": false}
	for _, c := range logsCmd.Commands() {
		want[c.Name()] = true
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestLineCountPrintsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/logs/linecount" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("room"); got != "lobby" {
			t.Errorf("room: %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"room": "lobby", "days": []any{}})
	}))
	defer srv.Close()

	cmd := newLineCountCommand(func() string { return srv.URL })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	_ = cmd.Flags().Set("room", "lobby")
	_ = cmd.Flags().Set("user", "alice")
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), `"lobby"`) {
		t.Fatalf("output: %s", out.String())
	}
}

func TestSeenReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "User never seen"})
	}))
	defer srv.Close()

	cmd := newSeenCommand(func() string { return srv.URL })
	cmd.SetOut(new(bytes.Buffer))
	_ = cmd.Flags().Set("user", "ghost")
	err := cmd.RunE(cmd, nil)
	if err == nil || !strings.Contains(err.Error(), "User never seen") {
		t.Fatalf("err: %v", err)
	}
}

func TestLogPostsLine(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/log" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	cmd := NewLogCommand(func() string { return srv.URL })
	cmd.SetOut(new(bytes.Buffer))
	_ = cmd.Flags().Set("room", "lobby")
	_ = cmd.Flags().Set("user", "alice")
	_ = cmd.Flags().Set("message", "hello")
	_ = cmd.Flags().Set("timestamp", "1718451045")
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got["room"] != "lobby" || got["timestamp"] != "1718451045" {
		t.Fatalf("posted body: %v", got)
	}
}
