// Package servo turns solved horn angles into servo commands and sends or records them.
package servo

import (
	"context"
	"sync"
)

// A Servo represents a physical servo connected to a board.
type Servo interface {
	// Move moves the servo to the given angle (0-180 degrees)
	Move(ctx context.Context, angleDegs uint8) error

	// Current returns the current set angle (degrees) of the servo.
	Current(ctx context.Context) (uint8, error)
}

// Fake is a Servo that remembers the last angle it was moved to.
type Fake struct {
	mu    sync.Mutex
	angle uint8
	moves int
}

// Move records the angle.
func (s *Fake) Move(ctx context.Context, angle uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.angle = angle
	s.moves++
	return nil
}

// Current returns the last angle moved to.
func (s *Fake) Current(ctx context.Context) (uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle, nil
}

// Moves returns how many times Move was called.
func (s *Fake) Moves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moves
}
