package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/invest-sim-go/internal/tools"
	"github.com/cloud-ru/invest-sim-go/internal/validators"
)

// RequestIDHeader - заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// Server обслуживает HTTP API инструментов
type Server struct {
	registry *tools.Registry
	logger   *logrus.Logger
	router   *mux.Router
}

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// New создает сервер и регистрирует маршруты
func New(registry *tools.Registry, logger *logrus.Logger) *Server {
	s := &Server{
		registry: registry,
		logger:   logger,
		router:   mux.NewRouter(),
	}
	s.RegisterRoutes(s.router)
	return s
}

// RegisterRoutes регистрирует маршруты API
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.Use(RequestIDMiddleware(s.logger))

	router.HandleFunc("/health", s.Health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tools", s.ListTools).Methods("GET")
	api.HandleFunc("/tools/{name}", s.CallTool).Methods("POST")
}

// ServeHTTP делегирует обработку маршрутизатору
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Health отвечает на проверку живости
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTools возвращает список инструментов
func (s *Server) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

// CallTool вызывает инструмент с параметрами из тела запроса (JSON-объект)
func (s *Server) CallTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	requestID := RequestIDFrom(r.Context())

	// Пустое тело допустимо: инструмент получит пустые параметры
	var params map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		s.logger.WithError(err).WithField("request_id", requestID).Error("Не удалось декодировать параметры инструмента")
		writeError(w, http.StatusBadRequest, "Неверный формат запроса", requestID)
		return
	}

	ctx := tools.WithCallInfo(r.Context(), tools.CallInfo{RequestID: requestID, Transport: "http"})
	result, err := s.registry.Call(ctx, name, params)
	if err != nil {
		writeError(w, statusFor(err), err.Error(), requestID)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// statusFor: 404 для неизвестного инструмента, 400 для ошибок проверки, 422 для ошибок расчета
func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, validators.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

type requestIDKey struct{}

// RequestIDFrom возвращает идентификатор запроса из контекста
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDMiddleware присваивает запросу идентификатор (или берет из заголовка) и
// пишет в лог метод, путь и длительность
func RequestIDMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

			logger.WithFields(logrus.Fields{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
				"duration":   time.Since(start),
			}).Debug("HTTP запрос обработан")
		})
	}
}

// ListenAndServe запускает сервер и останавливает его при отмене ctx
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Запуск сервера на порту :%d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Завершение работы сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка при завершении работы сервера: %w", err)
	}
	s.logger.Info("Сервер успешно остановлен")
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message, requestID string) {
	writeJSON(w, status, ErrorResponse{Error: message, RequestID: requestID})
}
