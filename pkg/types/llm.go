package types

// Role is the author of a chat message.
type Role string

// Message is a single chat message sent to a language model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TaskType classifies a generation request so providers can be routed per task.
type TaskType string

const (
	// TaskExtraction lists entities or synonyms from short text.
	TaskExtraction TaskType = "EXTRACTION"
	// TaskGeneration is open-ended generation.
	TaskGeneration TaskType = "GENERATION"
	// TaskAnswerGeneration synthesises a grounded answer from retrieved context.
	TaskAnswerGeneration TaskType = "ANSWER_GENERATION"
)

// QualityHint and ComplexityHint let routers pick a cheaper or stronger model.
type (
	QualityHint    string
	ComplexityHint string
)

const (
	QualityLow    QualityHint = "low"
	QualityMedium QualityHint = "medium"
	QualityHigh   QualityHint = "high"

	ComplexitySimple   ComplexityHint = "simple"
	ComplexityModerate ComplexityHint = "moderate"
	ComplexityComplex  ComplexityHint = "complex"
)

// Task is a typed generation request.
type Task struct {
	TaskType       TaskType       `json:"task_type"`
	Prompt         string         `json:"prompt"`
	SystemPrompt   string         `json:"system_prompt,omitempty"`
	MaxTokens      int            `json:"max_tokens"`
	Temperature    float32        `json:"temperature"`
	QualityHint    QualityHint    `json:"quality_hint,omitempty"`
	ComplexityHint ComplexityHint `json:"complexity_hint,omitempty"`
}

// Messages renders the task as chat messages.
func (t *Task) Messages() []Message {
	var msgs []Message
	if t.SystemPrompt != "" {
		msgs = append(msgs, Message{Role: "system", Content: t.SystemPrompt})
	}
	return append(msgs, Message{Role: "user", Content: t.Prompt})
}

// TokenUsage represents token usage information.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerationResult is the text produced for a Task plus provenance and cost.
type GenerationResult struct {
	Content    string      `json:"content"`
	Provider   string      `json:"provider"`
	Model      string      `json:"model"`
	CostUSD    float64     `json:"cost_usd"`
	LatencyMs  int64       `json:"latency_ms"`
	TokensUsed *TokenUsage `json:"tokens_used,omitempty"`
}
