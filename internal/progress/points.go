package progress

import "github.com/ourclass/readlog/internal/readinglog"

// PointsPerLevel is the number of points needed to advance one level.
const PointsPerLevel = 250

// PointsConfig holds the weights used by TotalPoints.
type PointsConfig struct {
	PerLog       int
	FinishBook   int
	DeepDive     int
	GoalAchieved int
}

// DefaultPoints returns the standard point weights.
func DefaultPoints() PointsConfig {
	return PointsConfig{
		PerLog:       10,
		FinishBook:   50,
		DeepDive:     25,
		GoalAchieved: 100,
	}
}

// TotalPoints returns the student's cumulative score: every log earns
// PerLog, plus FinishBook when the book was finished and DeepDive for a Deep
// Dive reflection, and every credited goal week earns GoalAchieved.
// Weights are expected to be non-negative.
func TotalPoints(user readinglog.User, logs []readinglog.LogEntry, cfg PointsConfig) int {
	total := 0
	for _, e := range logs {
		total += cfg.PerLog
		if e.FinishedBook {
			total += cfg.FinishBook
		}
		if e.IsDeepDive() {
			total += cfg.DeepDive
		}
	}
	return total + len(user.GoalAchievedWeeks)*cfg.GoalAchieved
}

// Level returns the 1-based level reached with points.
func Level(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// LevelProgress returns the points earned inside the current level and the
// matching percentage towards the next one.
func LevelProgress(points int) (inLevel int, percent float64) {
	if points < 0 {
		points = 0
	}
	inLevel = points % PointsPerLevel
	return inLevel, float64(inLevel) * 100 / PointsPerLevel
}
