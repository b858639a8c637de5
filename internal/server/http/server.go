package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/AnubhavShen14/Kid-A/internal/chatlog"
	"github.com/AnubhavShen14/Kid-A/internal/runtime"
	logpkg "github.com/AnubhavShen14/Kid-A/pkg/log"
)

// Server serves the chat-log HTTP API.
type Server struct {
	rt  *runtime.Runtime
	svc *chatlog.ChatLogger
	srv *http.Server
	lis net.Listener
	log logpkg.Logger
}

// New builds a Server around an already-started chatlog service.
func New(rt *runtime.Runtime, svc *chatlog.ChatLogger, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
	}
	mux := http.NewServeMux()
	s := &Server{rt: rt, svc: svc, log: logger.WithComponent("http"), srv: &http.Server{Handler: cors(mux)}}
	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/log", s.handleLog)
	mux.HandleFunc("/v1/logs/linecount", s.handleLineCount)
	mux.HandleFunc("/v1/logs/activity/users", s.handleUserActivity)
	mux.HandleFunc("/v1/logs/activity/room", s.handleRoomActivity)
	mux.HandleFunc("/v1/logs/users/unique", s.handleUniqueUsers)
	mux.HandleFunc("/v1/logs/seen", s.handleLastSeen)
	mux.HandleFunc("/v1/rooms", s.handleRooms)
	return s
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close force-closes the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.CheckHealth(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_serving"})
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

type logReq struct {
	Timestamp string `json:"timestamp"`
	Room      string `json:"room"`
	User      string `json:"user"`
	Message   string `json:"message"`
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req logReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// Malformed lines are dropped silently by design, so this always
	// acknowledges.
	s.svc.Log(req.Timestamp, req.Room, req.User, req.Message)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleLineCount(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	user := r.URL.Query().Get("user")
	days, err := s.svc.LineCount(r.Context(), room, user)
	if err != nil {
		s.log.Error("linecount failed", logpkg.Str("room", room), logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to read line counts")
		return
	}
	if days == nil {
		days = []chatlog.DayCount{}
	}
	writeJSON(w, map[string]any{"room": room, "user": user, "days": days})
}

func (s *Server) handleUserActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	room := q.Get("room")
	opts := chatlog.ActivityOptions{
		TodayOnly: q.Get("today") == "true" || q.Get("today") == "1",
		Hour:      q.Get("hour"),
	}
	filter, err := newCELFilter(q.Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter expression")
		return
	}
	rows, err := s.svc.UserActivity(r.Context(), room, opts)
	if err != nil {
		s.log.Error("user activity failed", logpkg.Str("room", room), logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to read user activity")
		return
	}
	out := make([]chatlog.UserCount, 0, len(rows))
	for _, row := range rows {
		if filter.Eval(row.User, row.Count, -1) {
			out = append(out, row)
		}
	}
	writeJSON(w, map[string]any{"room": room, "users": out})
}

func (s *Server) handleRoomActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	room := q.Get("room")
	filter, err := newCELFilter(q.Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter expression")
		return
	}
	hist, err := s.svc.RoomActivity(r.Context(), room)
	if err != nil {
		s.log.Error("room activity failed", logpkg.Str("room", room), logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to read room activity")
		return
	}
	out := make([]chatlog.HourCount, 0, len(hist))
	for _, bucket := range hist {
		hour, _ := strconv.Atoi(bucket.Hour)
		if filter.Eval("", bucket.Count, hour) {
			out = append(out, bucket)
		}
	}
	writeJSON(w, map[string]any{"room": room, "hours": out})
}

func (s *Server) handleUniqueUsers(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	n, err := s.svc.UniqueUsers(r.Context(), room)
	if err != nil {
		s.log.Error("unique users failed", logpkg.Str("room", room), logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to count users")
		return
	}
	writeJSON(w, map[string]any{"room": room, "count": n})
}

func (s *Server) handleLastSeen(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	ms, ok, err := s.svc.LastSeen(r.Context(), user)
	if err != nil {
		s.log.Error("last seen failed", logpkg.Str("user", user), logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to read last seen")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "User never seen")
		return
	}
	writeJSON(w, map[string]any{"user": user, "lastSeenMs": ms})
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"rooms": s.svc.Rooms()})
}
