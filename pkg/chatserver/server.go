package chatserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/shopease/supportchat/pkg/api"
	v1 "github.com/shopease/supportchat/pkg/apis/chat/v1"
	"github.com/shopease/supportchat/pkg/chat"
)

func NewServer(listenAddr string, chatService *chat.Service, openaiConfigured bool) *Server {
	return &Server{
		listenAddr:       listenAddr,
		chat:             chatService,
		openaiConfigured: openaiConfigured,
	}
}

type Server struct {
	listenAddr       string
	chat             *chat.Service
	openaiConfigured bool
	httpServer       *http.Server
}

// Handler builds the full route table. Exposed separately from Serve so tests
// can drive it with httptest.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/chat/message", s.postChatMessage).Methods(http.MethodPost)
	router.HandleFunc("/chat/history/{sessionId}", s.getChatHistory).Methods(http.MethodGet)
	router.HandleFunc("/chat/clear/{sessionId}", s.deleteChatClear).Methods(http.MethodDelete)
	router.HandleFunc("/health", s.getHealth).Methods(http.MethodGet)

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodOptions {
			setCORSHeaders(w)
			w.WriteHeader(http.StatusOK)
			return
		}
		errorResponse(w, chat.NewMethodNotAllowedError("Method not allowed"))
	})

	router.Use(corsMiddleware, metricsMiddleware)

	return router
}

func (s *Server) postChatMessage(w http.ResponseWriter, req *http.Request) {
	var request v1.ChatRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		log.WithError(err).Error("error parsing chat message request")
		errorResponse(w, chat.NewValidationError("Invalid JSON request body"))
		return
	}

	result, err := s.chat.ProcessMessage(req.Context(), &request)
	if err != nil {
		errorResponse(w, err)
		return
	}

	api.RespondWithJSON(http.StatusOK, w, result)
}

func (s *Server) getChatHistory(w http.ResponseWriter, req *http.Request) {
	sessionID := mux.Vars(req)["sessionId"]
	if sessionID == "" {
		errorResponse(w, chat.NewValidationError("Session ID is required"))
		return
	}

	result, err := s.chat.History(req.Context(), sessionID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	api.RespondWithJSON(http.StatusOK, w, result)
}

func (s *Server) deleteChatClear(w http.ResponseWriter, req *http.Request) {
	sessionID := mux.Vars(req)["sessionId"]
	if sessionID == "" {
		errorResponse(w, chat.NewValidationError("Session ID is required"))
		return
	}

	if err := s.chat.Clear(req.Context(), sessionID); err != nil {
		errorResponse(w, err)
		return
	}

	api.RespondWithJSON(http.StatusOK, w, v1.ClearResponse{Success: true})
}

func (s *Server) getHealth(w http.ResponseWriter, req *http.Request) {
	checks := v1.HealthChecks{
		Database: s.chat.Ping(req.Context()) == nil,
		OpenAI:   s.openaiConfigured,
	}

	status := "healthy"
	code := http.StatusOK
	if !checks.Database || !checks.OpenAI {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	api.RespondWithJSON(code, w, v1.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// errorResponse renders any error as the uniform error body. Errors outside
// the API taxonomy are logged in full and surfaced as INTERNAL_ERROR with no
// internal detail.
func errorResponse(w http.ResponseWriter, err error) {
	var apiErr *chat.APIError
	if !errors.As(err, &apiErr) {
		log.WithError(err).Error("unclassified error serving request")
		apiErr = chat.NewInternalError()
	}

	api.RespondWithJSON(apiErr.Status, w, v1.ErrorResponse{
		Success: false,
		Error: v1.ErrorDetail{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// corsMiddleware allows the widget to call the API from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		setCORSHeaders(w)
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (s *Server) Serve() {
	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: s.Handler(),
	}

	log.Infof("Serving chat API on %s", s.listenAddr)

	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.WithError(err).Fatal("server exited")
	}
}

func (s *Server) GetHTTPServer() *http.Server {
	return s.httpServer
}
