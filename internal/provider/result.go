package provider

// CompletionRequest is what the pipeline sends to a completion provider.
// Nil generation parameters fall back to the provider's defaults.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   *int
	Temperature *float64
}

// Completion is the raw text reply of a completion provider.
type Completion struct {
	Content  string
	Provider string
	Model    string
}
