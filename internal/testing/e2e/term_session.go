// Package e2e drives the built binary through a pseudo-terminal for
// end-to-end tests of the interactive commands.
package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// TermSession runs a command on a pty and captures everything it prints.
type TermSession struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	cancel context.CancelFunc

	mu     sync.RWMutex
	output bytes.Buffer
}

// TermConfig configures a TermSession.
type TermConfig struct {
	Command string
	Args    []string
	WorkDir string
	Env     []string

	// Terminal size, 24x80 when zero
	Rows uint16
	Cols uint16

	// Timeout bounds the whole session, 10s when zero
	Timeout time.Duration
}

// StartSession launches the command under a pty of the given size and
// begins capturing its output.
func StartSession(config *TermConfig) (*TermSession, error) {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Rows == 0 {
		config.Rows = 24
	}
	if config.Cols == 0 {
		config.Cols = 80
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	if config.WorkDir != "" {
		cmd.Dir = config.WorkDir
	}
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: config.Rows, Cols: config.Cols})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start pty: %w", err)
	}

	s := &TermSession{cmd: cmd, ptmx: ptmx, cancel: cancel}
	go s.capture()

	return s, nil
}

func (s *TermSession) capture() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.output.Write(buf[:n])
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKey writes a single key to the program's terminal.
func (s *TermSession) SendKey(key byte) error {
	_, err := s.ptmx.Write([]byte{key})
	return err
}

// Output returns everything captured so far, ANSI codes included.
func (s *TermSession) Output() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.output.String()
}

// CleanOutput returns the captured output with ANSI escape codes removed.
func (s *TermSession) CleanOutput() string {
	return StripANSI(s.Output())
}

// WaitForText polls until text shows up in the clean output.
func (s *TermSession) WaitForText(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(s.CleanOutput(), text) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for text: %s", text)
}

// Stop asks the program to quit with q, waits briefly, then tears the
// session down.
func (s *TermSession) Stop() error {
	s.SendKey('q')
	time.Sleep(100 * time.Millisecond)
	return s.ForceStop()
}

// ForceStop kills the program if it is still running and reaps it.
func (s *TermSession) ForceStop() error {
	s.cancel()
	if s.ptmx != nil {
		s.ptmx.Close()
	}
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	return s.cmd.Wait()
}
