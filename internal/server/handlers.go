package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/matzehuels/verilive/pkg/compiler"
	"github.com/matzehuels/verilive/pkg/errors"
	"github.com/matzehuels/verilive/pkg/graph"
	"github.com/matzehuels/verilive/pkg/pipeline"
)

// maxBody bounds a /compile request: two sources plus JSON overhead.
const maxBody = 2*errors.MaxSourceSize + 64<<10

// compileRequest mirrors the posted JSON. Pointers distinguish absent
// fields from empty ones.
type compileRequest struct {
	Module    *string `json:"module"`
	Testbench *string `json:"testbench"`
	View      string  `json:"view,omitempty"`

	// Legacy returns netlist as a JSON-encoded string holding the
	// connectivity graph unless View names another one.
	Legacy bool `json:"legacy,omitempty"`
}

type compileResponse struct {
	Stdout   string          `json:"stdout"`
	Waveform *string         `json:"waveform"`
	Netlist  json.RawMessage `json:"netlist"`
	Seconds  float64         `json:"seconds"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.meta)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	var req compileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("Malformed JSON: %v", err))
		return
	}
	switch {
	case req.Module == nil:
		writeText(w, http.StatusBadRequest, missingArgument("module"))
		return
	case req.Testbench == nil:
		writeText(w, http.StatusBadRequest, missingArgument("testbench"))
		return
	}

	if req.Legacy && req.View == "" {
		req.View = string(graph.ViewConnectivity)
	}
	view, err := graph.ParseView(req.View)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	src := compiler.Source{Module: *req.Module, Testbench: *req.Testbench}
	res, err := s.runner.ExecuteSource(r.Context(), src, pipeline.Options{
		View:   view,
		Format: graph.FormatJSON,
		Logger: logger,
	})
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.Error("compile request failed", "err", err)
		} else {
			logger.Info("compile rejected", "status", status, "err", err)
		}
		writeError(w, status, err)
		return
	}

	netlist := json.RawMessage(bytes.TrimSpace(res.Artifact))
	if req.Legacy {
		quoted, err := json.Marshal(string(netlist))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		netlist = quoted
	}
	resp := compileResponse{
		Stdout:  res.Compile.Stdout,
		Netlist: netlist,
		Seconds: res.Compile.Duration.Seconds(),
	}
	if res.Compile.Waveform != nil {
		wave := string(res.Compile.Waveform)
		resp.Waveform = &wave
	}
	writeJSON(w, http.StatusOK, resp)
}

func missingArgument(name string) string {
	return fmt.Sprintf("Argument %s not found in posted JSON", name)
}

// statusFor maps pipeline errors onto HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeTimeout:
		return http.StatusConflict
	case errors.ErrCodeCompileFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidView, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeError reports err as {"error": message, "code": CODE}. Timeouts
// carry the message alone.
func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: errors.UserMessage(err)}
	if code := errors.GetCode(err); code != errors.ErrCodeTimeout {
		resp.Code = code
	}
	writeJSON(w, status, resp)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
