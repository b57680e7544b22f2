// Package speech drives the platform speech synthesizer so article
// summaries can be read aloud from the terminal. One utterance at a
// time; a new Speak always silences the previous one first.
package speech

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/irwanphan/voice-news-summary/internal/config"
)

// ErrUnsupported reports that no synthesizer is known for this platform.
var ErrUnsupported = fmt.Errorf("no speech synthesizer available on %s", runtime.GOOS)

type Controller struct {
	mu      sync.Mutex
	newCmd  func(text string) *exec.Cmd
	current *exec.Cmd
	done    chan struct{}
	paused  bool
	log     zerolog.Logger
}

// NewController builds a controller for the configured synthesizer
// command, falling back to the platform default (say on macOS, espeak on
// Linux). Returns ErrUnsupported when neither applies.
func NewController(cfg config.SpeechConfig, log zerolog.Logger) (*Controller, error) {
	name, args := cfg.Command, cfg.Args
	if name == "" {
		switch runtime.GOOS {
		case "darwin":
			name = "say"
		case "linux":
			name = "espeak"
		default:
			return nil, ErrUnsupported
		}
	}
	return &Controller{
		newCmd: func(text string) *exec.Cmd {
			return exec.Command(name, append(append([]string{}, args...), text)...)
		},
		log: log,
	}, nil
}

// NewControllerWithCommand injects the command constructor; used by tests.
func NewControllerWithCommand(newCmd func(text string) *exec.Cmd, log zerolog.Logger) *Controller {
	return &Controller{newCmd: newCmd, log: log}
}

// Speak starts reading text aloud, first stopping any utterance already
// in flight.
func (c *Controller) Speak(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	cmd := c.newCmd(text)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting synthesizer: %w", err)
	}

	done := make(chan struct{})
	c.current = cmd
	c.done = done
	c.paused = false

	go func() {
		err := cmd.Wait()
		close(done)
		c.mu.Lock()
		if c.current == cmd {
			c.current = nil
			c.paused = false
		}
		c.mu.Unlock()
		if err != nil {
			c.log.Debug().Err(err).Msg("synthesizer exited")
		}
	}()
	return nil
}

// Pause suspends the current utterance. No-op when idle or already
// paused.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.paused {
		return nil
	}
	if err := suspend(c.current); err != nil {
		return fmt.Errorf("pausing speech: %w", err)
	}
	c.paused = true
	return nil
}

// Resume continues a paused utterance.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || !c.paused {
		return nil
	}
	if err := resume(c.current); err != nil {
		return fmt.Errorf("resuming speech: %w", err)
	}
	c.paused = false
	return nil
}

// Stop silences the current utterance, if any.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Speaking reports whether an utterance is in flight, paused or not.
func (c *Controller) Speaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Paused reports whether the current utterance is suspended.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.paused
}

// Done returns a channel closed when the current utterance finishes.
// When nothing is playing the channel is already closed.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.done
}

// Shutdown releases the synthesizer. The controller must not be used
// afterwards.
func (c *Controller) Shutdown() {
	c.Stop()
}

func (c *Controller) stopLocked() {
	if c.current == nil {
		return
	}
	if c.current.Process != nil {
		c.current.Process.Kill()
	}
	c.current = nil
	c.paused = false
}
