// ABOUTME: Voice-steered obstacle game
// ABOUTME: Documents the per-frame step of character, course and collisions
// Package game implements the voice-steered obstacle course.
//
// A Game advances one fixed time-step per pitch estimate: the character
// eases toward the height mapped from the pitch, the course scrolls and
// recycles obstacles that left the viewport, and any overlap between the
// character and a pillar stops the game for good.
//
// Everything here is pure state; rendering lives in internal/ui.
package game
