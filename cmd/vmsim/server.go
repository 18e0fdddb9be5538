package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/djdv/go-vmsim"
)

type (
	serverConfig struct {
		Port     int    `json:"port"`
		LogLevel string `json:"log_level"`
		LogFile  string `json:"log_file"`
	}
	server struct {
		logger *slog.Logger
	}
	simulateResponse struct {
		Timeline       vmsim.Timeline `json:"timeline"`
		Stats          vmsim.Stats    `json:"stats"`
		FaultRate      float64        `json:"faultRate"`
		HitRatio       float64        `json:"hitRatio"`
		TLBHitRatio    float64        `json:"tlbHitRatio"`
		ThrashingSteps []int          `json:"thrashingSteps"`
	}
	translateRequest struct {
		Scenario       scenario `json:"scenario"`
		Step           int      `json:"step"`
		Process        *int     `json:"processId"`
		VirtualAddress int      `json:"virtualAddress"`
		PageSize       int      `json:"pageSize"`
	}
	errorResponse struct {
		Error string `json:"error"`
	}
)

const defaultPort = 8000

func loadServerConfig(path string) (serverConfig, error) {
	config := serverConfig{Port: defaultPort}
	if path == "" {
		return config, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return config, fmt.Errorf("decoding server config %s: %w", path, err)
	}
	return config, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /policies", s.handlePolicies)
	mux.HandleFunc("POST /simulate", s.handleSimulate)
	mux.HandleFunc("POST /compare", s.handleCompare)
	mux.HandleFunc("POST /translate", s.handleTranslate)
	return mux
}

// serve listens on port until ctx is done.
func (s *server) serve(ctx context.Context, port int) error {
	const shutdownTimeout = 5 * time.Second
	httpServer := &http.Server{
		Addr:     ":" + strconv.Itoa(port),
		Handler:  s.routes(),
		ErrorLog: slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	errs := make(chan error, 1)
	go func() { errs <- httpServer.ListenAndServe() }()
	s.logger.Info("listening", "addr", httpServer.Addr)
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) handlePolicies(writer http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(vmsim.Policies()))
	for _, policy := range vmsim.Policies() {
		names = append(names, policy.String())
	}
	s.sendJSON(writer, http.StatusOK, names)
}

func (s *server) handleSimulate(writer http.ResponseWriter, request *http.Request) {
	scenario, err := decodeScenario(request.Body)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	timeline, err := scenario.run(vmsim.WithLogger(s.logger))
	if err != nil {
		s.sendError(writer, err)
		return
	}
	stats := timeline.Stats()
	s.logger.Info("simulated",
		"policy", scenario.Config.Policy,
		"references", len(timeline),
		"faults", stats.PageFaults)
	s.sendJSON(writer, http.StatusOK, simulateResponse{
		Timeline:       timeline,
		Stats:          stats,
		FaultRate:      stats.FaultRate(),
		HitRatio:       stats.HitRatio(),
		TLBHitRatio:    stats.TLBHitRatio(),
		ThrashingSteps: timeline.ThrashingSteps(),
	})
}

func (s *server) handleCompare(writer http.ResponseWriter, request *http.Request) {
	scenario, err := decodeScenario(request.Body)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	trace, err := scenario.trace()
	if err != nil {
		s.sendError(writer, err)
		return
	}
	comparison, err := vmsim.Compare(request.Context(),
		scenario.Config, scenario.Processes, trace)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendJSON(writer, http.StatusOK, comparison)
}

func (s *server) handleTranslate(writer http.ResponseWriter, request *http.Request) {
	var translate translateRequest
	if err := json.NewDecoder(request.Body).Decode(&translate); err != nil {
		s.sendError(writer, fmt.Errorf("decoding request: %w", err))
		return
	}
	timeline, err := translate.Scenario.run()
	if err != nil {
		s.sendError(writer, err)
		return
	}
	if translate.Step < 0 || translate.Step >= len(timeline) {
		s.sendError(writer, fmt.Errorf("%w: step %d is outside [0, %d)",
			vmsim.ErrInvalidAddress, translate.Step, len(timeline)))
		return
	}
	process := translate.Scenario.Config.ActiveProcess
	if translate.Process != nil {
		process = *translate.Process
	}
	translation, err := vmsim.Translate(timeline[translate.Step],
		process, translate.VirtualAddress, translate.PageSize)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendJSON(writer, http.StatusOK, translation)
}

// sendError maps engine errors to client errors;
// every engine error is a rejected request.
func (s *server) sendError(writer http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
	}
	s.logger.Warn("rejected request", "error", err)
	s.sendJSON(writer, status, errorResponse{Error: err.Error()})
}

func (s *server) sendJSON(writer http.ResponseWriter, status int, data any) {
	response, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("encoding response", "error", err)
		http.Error(writer, "encoding response", http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if _, err := writer.Write(response); err != nil {
		s.logger.Debug("writing response", "error", err)
	}
}
