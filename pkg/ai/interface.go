package ai

import "context"

// TaskExtraction is the structured payload an extraction provider pulls out
// of a supplier email (shared type).
type TaskExtraction struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	TaskType     string   `json:"task_type,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	DueDate      string   `json:"due_date,omitempty"` // ISO 8601 date, empty when absent
	PartNumber   string   `json:"part_number,omitempty"`
	OrderNumber  string   `json:"order_number,omitempty"`
	CustomerName string   `json:"customer_name,omitempty"`
	ProjectName  string   `json:"project_name,omitempty"`
	AssigneeName string   `json:"assignee_name,omitempty"`
	ActionItems  []string `json:"action_items,omitempty"`
}

// ExtractorService is the interface for AI task extraction.
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type ExtractorService interface {
	ExtractTask(ctx context.Context, emailText string) (*TaskExtraction, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderOpenAI ProviderType = "openai"
	ProviderAuto   ProviderType = "auto"
)
