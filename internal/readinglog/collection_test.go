package readinglog

import (
	"errors"
	"testing"
	"time"
)

func entryAt(day int, student string) LogEntry {
	return LogEntry{
		Timestamp:  time.Date(2024, time.July, day, 10, 0, 0, 0, time.UTC),
		StudentID:  student,
		BookTitle:  "Book",
		Reflection: QuickThought{Thought: "thinking about it", MinutesRead: 10},
	}
}

func TestPrepend(t *testing.T) {
	logs := []LogEntry{entryAt(1, "s1")}

	got, err := Prepend(logs, entryAt(2, "s1"))
	if err != nil {
		t.Fatalf("Prepend: %v", err)
	}
	if len(got) != 2 || got[0].Timestamp.Day() != 2 {
		t.Errorf("expected new entry first, got %+v", got)
	}
	if len(logs) != 1 {
		t.Error("Prepend must not modify its input")
	}

	if _, err := Prepend(got, entryAt(1, "s2")); !errors.Is(err, ErrDuplicateTimestamp) {
		t.Errorf("err = %v, want ErrDuplicateTimestamp", err)
	}
}

func TestSetFeedback(t *testing.T) {
	logs := []LogEntry{entryAt(2, "s1"), entryAt(1, "s2")}

	got, err := SetFeedback(logs, entryAt(1, "").Timestamp, "Great point!")
	if err != nil {
		t.Fatalf("SetFeedback: %v", err)
	}
	if got[1].TeacherFeedback != "Great point!" {
		t.Errorf("feedback = %q", got[1].TeacherFeedback)
	}
	if logs[1].TeacherFeedback != "" {
		t.Error("SetFeedback must not modify its input")
	}

	_, err = SetFeedback(logs, time.Time{}, "x")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("err = %v, want ErrEntryNotFound", err)
	}
}

func TestForStudentAndSort(t *testing.T) {
	logs := []LogEntry{entryAt(1, "s1"), entryAt(3, "s2"), entryAt(2, "s1")}

	mine := ForStudent(logs, "s1")
	if len(mine) != 2 {
		t.Fatalf("ForStudent = %d entries, want 2", len(mine))
	}

	SortNewestFirst(mine)
	if mine[0].Timestamp.Day() != 2 || mine[1].Timestamp.Day() != 1 {
		t.Errorf("unexpected order: %v, %v", mine[0].Timestamp, mine[1].Timestamp)
	}
}

func TestUserCreditWeekIsIdempotent(t *testing.T) {
	u := User{ID: "s1", Role: RoleStudent, GoalAchievedWeeks: []string{"2024-29"}}

	once := u.WithCreditedWeek("2024-30")
	twice := once.WithCreditedWeek("2024-30")

	if len(twice.GoalAchievedWeeks) != 2 {
		t.Errorf("weeks = %v, want 2 entries", twice.GoalAchievedWeeks)
	}
	if len(u.GoalAchievedWeeks) != 1 {
		t.Error("WithCreditedWeek must not modify the receiver's slice")
	}
	if !twice.HasCreditedWeek("2024-30") {
		t.Error("expected week 2024-30 to be credited")
	}
}

func TestStudentsSortedByName(t *testing.T) {
	users := []User{
		{ID: "s3", Name: "Charlie", Role: RoleStudent},
		TeacherIdentity(),
		{ID: "s1", Name: "Alice", Role: RoleStudent},
	}
	got := Students(users)
	if len(got) != 2 || got[0].Name != "Alice" || got[1].Name != "Charlie" {
		t.Errorf("Students = %+v", got)
	}
}
