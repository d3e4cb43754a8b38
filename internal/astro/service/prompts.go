package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/zodiac"
)

const greetingPrompt = `You are a friendly and knowledgeable AI astrologer. Your role is to:
1. Open with a warm, engaging greeting
2. Ask about the user's zodiac sign and interests unless the sign is already given in the user data
3. Keep the reply brief (30-50 words) and conversational
4. Blend astrological wisdom with modern insight
5. Stay positive and encouraging
6. Use at most one or two emojis`

const chatPrompt = `You are an expert AI astrologer with deep knowledge of astrology, psychology and personal development. Your role is to:
1. Give personalized astrological insight based on the user's zodiac sign
2. Keep the main answer under 100 words
3. Answer in two parts: the insight itself, then one follow-up question that invites the user to continue
4. Use a professional yet friendly tone
5. Mention planetary positions and their meaning when relevant
6. Offer guidance and possibilities rather than absolute predictions
7. Never open with a greeting; start directly with the content
8. Do not repeat earlier messages`

// systemPrompt returns the instructions for a turn, enriched with the user's
// sign when their birth date is known.
func systemPrompt(greeting bool, dob *time.Time) string {
	base := chatPrompt
	if greeting {
		base = greetingPrompt
	}
	if dob == nil {
		return base
	}

	sign := zodiac.SignFor(*dob)
	var b strings.Builder
	b.WriteString(base)
	fmt.Fprintf(&b, "\n\nIMPORTANT USER DATA: The user's zodiac sign is %s (date of birth %s). "+
		"Use it to personalize your answers and do not ask for their sign again.",
		sign, dob.Format(zodiac.DateLayout))

	if c, ok := zodiac.CharacteristicsOf(sign); ok {
		fmt.Fprintf(&b, " Element: %s. Traits: %s.", c.Element, strings.Join(c.Traits, ", "))
	}
	return b.String()
}
