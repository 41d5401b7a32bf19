// Package progress derives a student's gamification state from their logs:
// reading streaks, points and levels, weekly goal completion and badges.
// Every function is pure; the reference instant is always passed in.
package progress
