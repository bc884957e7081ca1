package classifier

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
)

// ServiceConfig configures the sketch classification subprocess.
type ServiceConfig struct {
	// ScriptPath overrides the service script location. Empty means
	// search the usual locations.
	ScriptPath string
	// InputSize is the side length of the square input tensor.
	InputSize int
	// NumCategories is the expected length of the probability vector.
	NumCategories int
}

// Service implements Classifier by delegating to a Python subprocess
// running the sketch model. Tensors go out as length-prefixed float32
// payloads; probabilities come back as one JSON line per request.
//
// Unlike the hand detector, the process is started eagerly: if the model
// cannot load, the whole game feature is unusable and the caller needs
// to know immediately.
type Service struct {
	config ServiceConfig
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	mu     sync.Mutex
	closed bool
}

// NewService starts the classification subprocess. A missing script or
// a failed model load is returned as an error and is fatal to the
// caller; there is no degraded mode without a model.
func NewService(config ServiceConfig) (*Service, error) {
	scriptPath := config.ScriptPath
	if scriptPath == "" {
		scriptPath = findSketchScript()
	}
	if scriptPath == "" {
		return nil, fmt.Errorf("sketch_service.py not found")
	}

	pythonPath := findServiceVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	cmd := exec.Command(pythonPath, scriptPath,
		"--input-size", strconv.Itoa(config.InputSize),
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start sketch service: %w", err)
	}

	s := &Service{
		config: config,
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
	}

	// The service prints one ready line after loading the model.
	line, err := s.stdout.ReadString('\n')
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("sketch service failed to start: %w", err)
	}
	var ready struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal([]byte(line), &ready); err != nil || ready.Status != "ready" {
		s.Close()
		if ready.Error != "" {
			return nil, fmt.Errorf("sketch model load failed: %s", ready.Error)
		}
		return nil, fmt.Errorf("unexpected sketch service handshake: %q", line)
	}

	return s, nil
}

// Predict sends one tensor and reads back the probability vector.
func (s *Service) Predict(tensor []float32) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("classifier is closed")
	}

	payload := make([]byte, 4+len(tensor)*4)
	binary.BigEndian.PutUint32(payload, uint32(len(tensor)*4))
	for i, v := range tensor {
		binary.LittleEndian.PutUint32(payload[4+i*4:], math.Float32bits(v))
	}
	if _, err := s.stdin.Write(payload); err != nil {
		return nil, fmt.Errorf("write tensor: %w", err)
	}

	line, err := s.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read prediction: %w", err)
	}

	var response struct {
		Probs []float32 `json:"probs"`
		Error string    `json:"error"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse prediction: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("sketch service: %s", response.Error)
	}
	if n := s.config.NumCategories; n > 0 && len(response.Probs) != n {
		return nil, fmt.Errorf("got %d probabilities, want %d", len(response.Probs), n)
	}

	return response.Probs, nil
}

// Close shuts down the subprocess.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.stdin != nil {
		s.stdin.Close()
	}
	return s.cmd.Wait()
}

func findSketchScript() string {
	candidates := []string{
		"scripts/sketch_service.py",
		"../scripts/sketch_service.py",
	}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), "scripts/sketch_service.py"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".drawvsai/scripts/sketch_service.py"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

func findServiceVenvPython() string {
	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".drawvsai/venv/bin/python"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}
