package llm

import "context"

type purposeKey struct{}

// Purposes used to label LLM events.
const (
	PurposeStudentAnalysis = "student-analysis"
	PurposeClassAnalysis   = "class-analysis"
	PurposeFeedback        = "feedback"
	PurposeRecommendations = "recommendations"
	PurposeCover           = "cover"
)

// WithPurpose labels requests made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
