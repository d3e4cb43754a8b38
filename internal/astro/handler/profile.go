package handler

import (
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/dto"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/service"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/zodiac"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetDOB(c *fiber.Ctx) error {
	profile, err := h.profile.GetDOB(c.UserContext(), sessionEmail(c), c.Query("email"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dobOutput(profile))
}

func (h *Handler) UpdateDOB(c *fiber.Ctx) error {
	var input dto.UpdateDOBInput
	if err := h.parse(c, "profile.update_dob", "Email and date of birth are required.", &input); err != nil {
		// Rejected attempts still count against the update limit.
		if limitErr := h.profile.AllowUpdate(sessionEmail(c), clientIP(c)); limitErr != nil {
			return h.fail(c, limitErr)
		}
		return h.fail(c, err)
	}

	update, err := h.profile.UpdateDOB(c.UserContext(), sessionEmail(c), clientIP(c), input.Email, input.DOB)
	if err != nil {
		return h.fail(c, err)
	}

	message := "Date of birth updated successfully"
	if !update.Changed {
		message = "No changes needed"
	}
	return c.JSON(dto.UpdateDOBOutput{
		Success:   true,
		Message:   message,
		DOBOutput: dobOutput(&update.Profile),
	})
}

func dobOutput(p *service.BirthProfile) dto.DOBOutput {
	out := dto.DOBOutput{DOBCollected: p.Collected}
	if p.DOB == nil {
		return out
	}

	dob := p.DOB.Format(zodiac.DateLayout)
	out.DOB = &dob
	out.Zodiac = &dto.ZodiacOutput{Sign: string(p.Sign)}
	if ch := p.Characteristics; ch != nil {
		out.Zodiac.Element = ch.Element
		out.Zodiac.Traits = ch.Traits
		out.Zodiac.LuckyNumbers = ch.LuckyNumbers
		for _, s := range ch.Compatibility {
			out.Zodiac.Compatibility = append(out.Zodiac.Compatibility, string(s))
		}
	}
	return out
}
