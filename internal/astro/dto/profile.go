package dto

type UpdateDOBInput struct {
	Email string `json:"email" validate:"required,email"`
	DOB   string `json:"dob" validate:"required"`
}

type ZodiacOutput struct {
	Sign          string   `json:"sign"`
	Element       string   `json:"element,omitempty"`
	Traits        []string `json:"traits,omitempty"`
	Compatibility []string `json:"compatibility,omitempty"`
	LuckyNumbers  []int    `json:"lucky_numbers,omitempty"`
}

type DOBOutput struct {
	DOB          *string       `json:"dob"`
	DOBCollected bool          `json:"dob_collected"`
	Zodiac       *ZodiacOutput `json:"zodiac,omitempty"`
}

type UpdateDOBOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	DOBOutput
}
