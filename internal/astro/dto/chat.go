package dto

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatInput struct {
	Messages        []ChatMessage `json:"messages" validate:"required,min=1,max=50,dive"`
	InitialGreeting bool          `json:"initialGreeting"`
	// TurnID lets a client retry a turn without paying twice.
	TurnID string `json:"turnId" validate:"omitempty,max=64"`
}

type ChatOutput struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
	Credits  *int   `json:"credits,omitempty"`
	TurnID   string `json:"turnId,omitempty"`
}
