// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "time"

// Swipe limits. Distances are in terminal cells.
const (
	DefaultSwipeDistance = 8
	DefaultSwipeDuration = 500 * time.Millisecond
)

// Point is a pointer position.
type Point struct {
	X, Y int
}

/*
SwipeDetector turns a press and a release into a chapter step.

A swipe must travel at least MinDistance horizontally, more horizontally
than vertically, within MaxDuration. Swiping left moves forward.
*/
type SwipeDetector struct {
	MinDistance int
	MaxDuration time.Duration

	start   Point
	startAt time.Time
	active  bool
}

// NewSwipeDetector creates a detector with the default limits.
func NewSwipeDetector() *SwipeDetector {
	return &SwipeDetector{MinDistance: DefaultSwipeDistance, MaxDuration: DefaultSwipeDuration}
}

// Begin records the press.
func (detector *SwipeDetector) Begin(p Point, at time.Time) {
	detector.start = p
	detector.startAt = at
	detector.active = true
}

// End records the release and returns the chapter step, if the gesture was a swipe.
func (detector *SwipeDetector) End(p Point, at time.Time) (int, bool) {
	if !detector.active {
		return 0, false
	}
	detector.active = false

	dx := p.X - detector.start.X
	dy := p.Y - detector.start.Y
	if abs(dx) < detector.MinDistance || abs(dx) <= abs(dy) || at.Sub(detector.startAt) > detector.MaxDuration {
		return 0, false
	}
	if dx < 0 {
		return 1, true
	}
	return -1, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
