package readinglog

// DefaultClassCode is the class code used until the teacher changes it.
const DefaultClassCode = "READERS"

// ClassSettings holds class-wide configuration.
type ClassSettings struct {
	ClassCode string `json:"classCode"`
}

// DefaultClassSettings returns the settings of a new class.
func DefaultClassSettings() ClassSettings {
	return ClassSettings{ClassCode: DefaultClassCode}
}
