package readinglog

import (
	"slices"
	"strings"
)

// Role distinguishes teachers from students.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// GoalType selects the metric a weekly goal is measured in.
type GoalType string

const (
	GoalBooks   GoalType = "books"
	GoalMinutes GoalType = "minutes"
)

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	return t == GoalBooks || t == GoalMinutes
}

// ReadingGoal is a weekly target set by the teacher. It only counts during
// the week it was set for; older goals stay on the profile but are inert.
type ReadingGoal struct {
	Type   GoalType `json:"type"`
	Value  int      `json:"value"`
	WeekID string   `json:"weekIdentifier"`
}

// ActiveIn reports whether the goal applies to the given week.
func (g *ReadingGoal) ActiveIn(weekID string) bool {
	return g != nil && g.WeekID == weekID
}

// User is a roster member. PasswordHash holds a bcrypt hash and is never
// serialized.
type User struct {
	ID                string       `json:"id"`
	Role              Role         `json:"role"`
	Name              string       `json:"name"`
	Avatar            string       `json:"avatar"`
	PasswordHash      string       `json:"-"`
	Goal              *ReadingGoal `json:"goal,omitempty"`
	GoalAchievedWeeks []string     `json:"goalAchievedWeeks"`
}

// TeacherIdentity is the single synthetic teacher account.
func TeacherIdentity() User {
	return User{ID: "t1", Role: RoleTeacher, Name: "Teacher", Avatar: "teacher"}
}

// IsStudent reports whether the user is a student.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// HasCreditedWeek reports whether the goal for weekID was already credited.
func (u User) HasCreditedWeek(weekID string) bool {
	return slices.Contains(u.GoalAchievedWeeks, weekID)
}

// WithCreditedWeek returns a copy of u with weekID credited. Crediting an
// already credited week returns an unchanged copy.
func (u User) WithCreditedWeek(weekID string) User {
	weeks := slices.Clone(u.GoalAchievedWeeks)
	if !slices.Contains(weeks, weekID) {
		weeks = append(weeks, weekID)
	}
	u.GoalAchievedWeeks = weeks
	return u
}

// Students filters users down to students sorted by name.
func Students(users []User) []User {
	var out []User
	for _, u := range users {
		if u.IsStudent() {
			out = append(out, u)
		}
	}
	slices.SortStableFunc(out, func(a, b User) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
