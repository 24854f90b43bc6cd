// Package playback owns the audio playback session. The original design
// kept a shared global player handle; here the session is an explicitly
// injected object with a release path, so switching or stopping playback is
// deterministic and testable.
package playback

import "sync"

// Sink renders one media reference at a time. The hardware implementation
// is an external collaborator; tests inject fakes.
type Sink interface {
	Start(ref string) error
	Stop() error
}

// Session owns at most one active playback. Playing a new reference stops
// the previous one first; playing the current reference again toggles it
// off.
type Session struct {
	mu      sync.Mutex
	sink    Sink
	current string
}

func NewSession(sink Sink) *Session {
	return &Session{sink: sink}
}

// Current returns the reference being played, or "" when idle.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Play starts ref, stopping whatever was playing. Playing the active ref
// stops it instead.
func (s *Session) Play(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == ref {
		return s.stopLocked()
	}
	if s.current != "" {
		if err := s.stopLocked(); err != nil {
			return err
		}
	}
	if err := s.sink.Start(ref); err != nil {
		return err
	}
	s.current = ref
	return nil
}

// Stop halts playback if any.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

func (s *Session) stopLocked() error {
	if s.current == "" {
		return nil
	}
	s.current = ""
	return s.sink.Stop()
}

// Close releases the session. Callers defer it when the owning view goes
// away.
func (s *Session) Close() error {
	return s.Stop()
}
