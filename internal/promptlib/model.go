package promptlib

// ReviewerData is the template data for the reviewer stage (stage 1).
type ReviewerData struct {
	RepoFullName     string
	PRTitle          string
	PRBody           string
	Strictness       string
	CustomInstructions []string
	Incremental      bool
	IncrementalNote  string
	FeedbackHints    []string
	DiffPatch        string
	ContextPackJSON  string
}

// EditorData is the template data for the editor stage (stage 2).
type EditorData struct {
	RepoFullName    string
	Strictness      string
	DraftReviewJSON string
}

// CoverageData is the template data for the coverage stage (stage 3).
type CoverageData struct {
	RepoFullName    string
	Targets         []string
	FinalReviewJSON string
	ContextPackJSON string
}

// VerifierData is the template data for the verifier stage (stage 4).
type VerifierData struct {
	RepoFullName string
	HeadSHA      string
	DiffPatch    string
	ChangedFiles []string
}
