// Package readinglog defines reading log entries, student profiles and the
// authoring workflow that turns a submitted form into an entry.
package readinglog

// Format is the physical or digital form a book was read in.
type Format string

const (
	FormatPrint     Format = "Print"
	FormatEBook     Format = "eBook"
	FormatAudiobook Format = "Audiobook"
	FormatComic     Format = "Comic"
)

// AllFormats returns the formats in display order.
func AllFormats() []Format {
	return []Format{FormatPrint, FormatEBook, FormatAudiobook, FormatComic}
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	for _, known := range AllFormats() {
		if f == known {
			return true
		}
	}
	return false
}

// Genres is the fixed genre vocabulary offered to students.
var Genres = []string{
	"Realistic fiction",
	"Fantasy",
	"Sci fi",
	"Mystery",
	"Historical fiction",
	"Poetry",
	"Informational",
	"Biography",
	"Memoir",
	"Graphic novel",
}

// IsGenre reports whether g is part of the genre vocabulary.
func IsGenre(g string) bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// ReflectionType labels which kind of reflection an entry carries.
type ReflectionType string

const (
	ReflectionQuickThought ReflectionType = "Quick thought"
	ReflectionDeepDive     ReflectionType = "Deep Dive"
)

// DeepDiveFocus is the analytical lens a Deep Dive reflection uses.
type DeepDiveFocus string

const (
	FocusTheme               DeepDiveFocus = "Theme"
	FocusCharacterChange     DeepDiveFocus = "Character change"
	FocusAuthorCraft         DeepDiveFocus = "Author craft move"
	FocusEvidenceExplanation DeepDiveFocus = "Evidence and explanation"
	FocusVocabulary          DeepDiveFocus = "Vocabulary in context"
	FocusTextToWorld         DeepDiveFocus = "Text to world connection"
)

// AllFoci returns the Deep Dive focus options in display order.
func AllFoci() []DeepDiveFocus {
	return []DeepDiveFocus{
		FocusTheme,
		FocusCharacterChange,
		FocusAuthorCraft,
		FocusEvidenceExplanation,
		FocusVocabulary,
		FocusTextToWorld,
	}
}

// Valid reports whether f is a known focus.
func (f DeepDiveFocus) Valid() bool {
	for _, known := range AllFoci() {
		if f == known {
			return true
		}
	}
	return false
}

// Avatars are the avatar keys a teacher can pick for a student.
var Avatars = []string{"avatar1", "avatar2", "avatar3", "avatar4", "avatar5", "avatar6"}
