// Package auth implements the login flow that turns a role choice and a set
// of credentials into an authenticated teacher or student identity.
package auth

import (
	"errors"
	"strings"

	"github.com/ourclass/readlog/internal/readinglog"
)

// Step is a state of the login flow.
type Step int

const (
	StepInitial              Step = iota // Choosing teacher or student
	StepTeacherCredential                // Teacher password entry
	StepStudentClassCode                 // Class code entry
	StepStudentProfileSelect             // Picking a profile from the roster
	StepStudentCredential                // Student password entry
	StepAuthenticated                    // Logged in
)

func (s Step) String() string {
	switch s {
	case StepInitial:
		return "initial"
	case StepTeacherCredential:
		return "teacher-credential"
	case StepStudentClassCode:
		return "student-class-code"
	case StepStudentProfileSelect:
		return "student-profile-select"
	case StepStudentCredential:
		return "student-credential"
	case StepAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

var (
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrIncorrectClassCode = errors.New("incorrect class code")
	ErrEmptyRoster        = errors.New("no students in the class")
	ErrUnknownRole        = errors.New("unknown role")
	ErrUnknownStudent     = errors.New("unknown student")
	ErrWrongStep          = errors.New("input does not belong to the current step")
)

// Message returns the text shown to the user for a login error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIncorrectPassword):
		return "Incorrect password."
	case errors.Is(err, ErrIncorrectClassCode):
		return "Incorrect class code."
	case errors.Is(err, ErrEmptyRoster):
		return "Your teacher needs to add you to the class first!"
	case errors.Is(err, ErrUnknownStudent):
		return "Please pick your name from the list."
	default:
		return "Something went wrong. Please try again."
	}
}

// Directory supplies the class data the login flow checks against.
type Directory interface {
	ClassCode() string
	Students() []readinglog.User
}

// StaticDirectory is a Directory over fixed values.
type StaticDirectory struct {
	Code   string
	Roster []readinglog.User
}

func (d StaticDirectory) ClassCode() string { return d.Code }

func (d StaticDirectory) Students() []readinglog.User { return readinglog.Students(d.Roster) }

// Transition is the outcome of one input.
type Transition struct {
	From Step
	Next Step
	Err  error
}

// Machine drives the login flow. It is not safe for concurrent use.
type Machine struct {
	teacher Credential
	dir     Directory

	step     Step
	students []readinglog.User
	selected *readinglog.User
	user     *readinglog.User
	field    string
	err      error
}

// NewMachine returns a machine at StepInitial.
func NewMachine(teacher Credential, dir Directory) *Machine {
	return &Machine{teacher: teacher, dir: dir}
}

// Step returns the current state.
func (m *Machine) Step() Step { return m.step }

// Err returns the error raised by the last input, if any.
func (m *Machine) Err() error { return m.err }

// ErrorText returns the user-facing message for the last error, or "".
func (m *Machine) ErrorText() string { return Message(m.err) }

// Field returns the value kept in the current step's input field. It holds a
// rejected entry so it can be corrected and is cleared by Back.
func (m *Machine) Field() string { return m.field }

// Students returns the profiles offered at StepStudentProfileSelect.
func (m *Machine) Students() []readinglog.User { return m.students }

// Selected returns the profile picked for password entry, or nil.
func (m *Machine) Selected() *readinglog.User { return m.selected }

// User returns the authenticated identity, or nil before authentication.
func (m *Machine) User() *readinglog.User { return m.user }

// EmptyRoster reports whether the flow is stuck at profile selection because
// the class has no students.
func (m *Machine) EmptyRoster() bool {
	return m.step == StepStudentProfileSelect && len(m.students) == 0
}

// Submit feeds input to the machine at step. The meaning of input depends on
// the step: a role ("teacher" or "student"), a password, a class code or a
// student id. A mismatch leaves the machine where it was with Err set.
func (m *Machine) Submit(step Step, input string) Transition {
	from := m.step
	if step != m.step {
		return Transition{From: from, Next: m.step, Err: ErrWrongStep}
	}

	var err error
	switch m.step {
	case StepInitial:
		err = m.chooseRole(readinglog.Role(strings.TrimSpace(input)))
	case StepTeacherCredential:
		err = m.teacherPassword(input)
	case StepStudentClassCode:
		err = m.classCode(input)
	case StepStudentProfileSelect:
		err = m.selectProfile(input)
	case StepStudentCredential:
		err = m.studentPassword(input)
	case StepAuthenticated:
		err = ErrWrongStep
	}
	m.err = err
	return Transition{From: from, Next: m.step, Err: err}
}

// ChooseRole submits the role at StepInitial.
func (m *Machine) ChooseRole(role readinglog.Role) Transition {
	return m.Submit(StepInitial, string(role))
}

// SubmitPassword submits a password at whichever credential step is current.
func (m *Machine) SubmitPassword(password string) Transition {
	if m.step != StepTeacherCredential && m.step != StepStudentCredential {
		return Transition{From: m.step, Next: m.step, Err: ErrWrongStep}
	}
	return m.Submit(m.step, password)
}

// SubmitClassCode submits a class code at StepStudentClassCode.
func (m *Machine) SubmitClassCode(code string) Transition {
	return m.Submit(StepStudentClassCode, code)
}

// SelectProfile picks a student by id at StepStudentProfileSelect.
func (m *Machine) SelectProfile(studentID string) Transition {
	return m.Submit(StepStudentProfileSelect, studentID)
}

func (m *Machine) chooseRole(role readinglog.Role) error {
	switch role {
	case readinglog.RoleTeacher:
		m.moveTo(StepTeacherCredential)
	case readinglog.RoleStudent:
		m.moveTo(StepStudentClassCode)
	default:
		return ErrUnknownRole
	}
	return nil
}

func (m *Machine) teacherPassword(password string) error {
	if !m.teacher.Verify(password) {
		m.field = password
		return ErrIncorrectPassword
	}
	teacher := readinglog.TeacherIdentity()
	m.user = &teacher
	m.moveTo(StepAuthenticated)
	return nil
}

func (m *Machine) classCode(code string) error {
	if !strings.EqualFold(strings.TrimSpace(code), m.dir.ClassCode()) {
		m.field = code
		return ErrIncorrectClassCode
	}
	m.students = m.dir.Students()
	m.moveTo(StepStudentProfileSelect)
	if len(m.students) == 0 {
		return ErrEmptyRoster
	}
	return nil
}

func (m *Machine) selectProfile(studentID string) error {
	if len(m.students) == 0 {
		return ErrEmptyRoster
	}
	for i := range m.students {
		if m.students[i].ID == studentID {
			student := m.students[i]
			m.selected = &student
			m.moveTo(StepStudentCredential)
			return nil
		}
	}
	return ErrUnknownStudent
}

func (m *Machine) studentPassword(password string) error {
	if m.selected == nil || !CredentialFromHash(m.selected.PasswordHash).Verify(password) {
		m.field = password
		return ErrIncorrectPassword
	}
	m.user = m.selected
	m.moveTo(StepAuthenticated)
	return nil
}

// moveTo changes step and clears the input field.
func (m *Machine) moveTo(step Step) {
	m.step = step
	m.field = ""
}

// Back undoes one step, discarding what was entered for the current step.
// From the teacher password or the class code it returns to StepInitial;
// from profile selection to the class code, or to StepInitial when the
// roster is empty; from student password entry to profile selection.
func (m *Machine) Back() Transition {
	from := m.step
	switch m.step {
	case StepTeacherCredential, StepStudentClassCode:
		m.Restart()
	case StepStudentProfileSelect:
		if len(m.students) == 0 {
			m.Restart()
			break
		}
		m.students = nil
		m.err = nil
		m.moveTo(StepStudentClassCode)
	case StepStudentCredential:
		m.selected = nil
		m.err = nil
		m.moveTo(StepStudentProfileSelect)
	}
	return Transition{From: from, Next: m.step}
}

// Restart returns to StepInitial and discards all transient state.
func (m *Machine) Restart() {
	m.step = StepInitial
	m.students = nil
	m.selected = nil
	m.user = nil
	m.field = ""
	m.err = nil
}

// Logout ends an authenticated session and restarts the flow.
func (m *Machine) Logout() Transition {
	from := m.step
	m.Restart()
	return Transition{From: from, Next: m.step}
}
