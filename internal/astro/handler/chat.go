package handler

import (
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/dto"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/service"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/llm"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Chat(c *fiber.Ctx) error {
	var input dto.ChatInput
	if err := h.parse(c, "chat", "Please provide a valid message.", &input); err != nil {
		return h.fail(c, err)
	}

	messages := make([]llm.Message, 0, len(input.Messages))
	for _, m := range input.Messages {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	res, err := h.chat.Chat(c.UserContext(), service.ChatInput{
		Email:           sessionEmail(c),
		IP:              clientIP(c),
		Messages:        messages,
		InitialGreeting: input.InitialGreeting,
		TurnID:          input.TurnID,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(dto.ChatOutput{
		Response: res.Response,
		Success:  true,
		Credits:  res.Credits,
		TurnID:   res.TurnID,
	})
}
