// Package zodiac derives tropical zodiac signs from birth dates and validates
// user-supplied dates of birth.
package zodiac

import (
	"time"
)

type Sign string

const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

// cusp is the first day of a sign; the sign runs until the next cusp.
type cusp struct {
	month time.Month
	day   int
	sign  Sign
}

// Ordered by calendar position. Dates before Jan 20 fall into Capricorn.
var cusps = []cusp{
	{time.January, 20, Aquarius},
	{time.February, 19, Pisces},
	{time.March, 21, Aries},
	{time.April, 20, Taurus},
	{time.May, 21, Gemini},
	{time.June, 21, Cancer},
	{time.July, 23, Leo},
	{time.August, 23, Virgo},
	{time.September, 23, Libra},
	{time.October, 23, Scorpio},
	{time.November, 22, Sagittarius},
	{time.December, 22, Capricorn},
}

// SignFor returns the sun sign for the calendar date of t.
func SignFor(t time.Time) Sign {
	month, day := t.Month(), t.Day()

	sign := Capricorn
	for _, c := range cusps {
		if month > c.month || (month == c.month && day >= c.day) {
			sign = c.sign
			continue
		}
		break
	}
	return sign
}

type Characteristics struct {
	Element       string   `json:"element"`
	Traits        []string `json:"traits"`
	Compatibility []Sign   `json:"compatibility"`
	LuckyNumbers  []int    `json:"lucky_numbers"`
}

var characteristics = map[Sign]Characteristics{
	Aries: {
		Element:       "Fire",
		Traits:        []string{"Courageous", "Determined", "Confident", "Enthusiastic", "Passionate"},
		Compatibility: []Sign{Leo, Sagittarius, Gemini, Libra},
		LuckyNumbers:  []int{1, 8, 17},
	},
	Taurus: {
		Element:       "Earth",
		Traits:        []string{"Reliable", "Patient", "Practical", "Devoted", "Responsible"},
		Compatibility: []Sign{Virgo, Capricorn, Cancer, Pisces},
		LuckyNumbers:  []int{2, 6, 9},
	},
	Gemini: {
		Element:       "Air",
		Traits:        []string{"Adaptable", "Outgoing", "Intelligent", "Curious", "Versatile"},
		Compatibility: []Sign{Libra, Aquarius, Aries, Leo},
		LuckyNumbers:  []int{3, 5, 14},
	},
	Cancer: {
		Element:       "Water",
		Traits:        []string{"Intuitive", "Emotional", "Loyal", "Sympathetic", "Nurturing"},
		Compatibility: []Sign{Scorpio, Pisces, Taurus, Virgo},
		LuckyNumbers:  []int{2, 7, 11},
	},
	Leo: {
		Element:       "Fire",
		Traits:        []string{"Creative", "Passionate", "Generous", "Warm-hearted", "Cheerful"},
		Compatibility: []Sign{Aries, Sagittarius, Gemini, Libra},
		LuckyNumbers:  []int{1, 5, 9},
	},
	Virgo: {
		Element:       "Earth",
		Traits:        []string{"Analytical", "Practical", "Hardworking", "Loyal", "Kind"},
		Compatibility: []Sign{Taurus, Capricorn, Cancer, Scorpio},
		LuckyNumbers:  []int{5, 14, 23},
	},
	Libra: {
		Element:       "Air",
		Traits:        []string{"Diplomatic", "Fair-minded", "Social", "Cooperative", "Gracious"},
		Compatibility: []Sign{Gemini, Aquarius, Leo, Sagittarius},
		LuckyNumbers:  []int{4, 6, 13},
	},
	Scorpio: {
		Element:       "Water",
		Traits:        []string{"Resourceful", "Brave", "Passionate", "Stubborn", "Determined"},
		Compatibility: []Sign{Cancer, Pisces, Virgo, Capricorn},
		LuckyNumbers:  []int{8, 11, 18},
	},
	Sagittarius: {
		Element:       "Fire",
		Traits:        []string{"Generous", "Idealistic", "Great sense of humor", "Adventurous", "Enthusiastic"},
		Compatibility: []Sign{Aries, Leo, Libra, Aquarius},
		LuckyNumbers:  []int{3, 7, 12},
	},
	Capricorn: {
		Element:       "Earth",
		Traits:        []string{"Responsible", "Disciplined", "Self-control", "Good managers", "Practical"},
		Compatibility: []Sign{Taurus, Virgo, Scorpio, Pisces},
		LuckyNumbers:  []int{4, 8, 13},
	},
	Aquarius: {
		Element:       "Air",
		Traits:        []string{"Progressive", "Original", "Independent", "Humanitarian", "Intellectual"},
		Compatibility: []Sign{Gemini, Libra, Sagittarius, Aries},
		LuckyNumbers:  []int{4, 7, 11},
	},
	Pisces: {
		Element:       "Water",
		Traits:        []string{"Compassionate", "Artistic", "Intuitive", "Gentle", "Wise"},
		Compatibility: []Sign{Cancer, Scorpio, Taurus, Capricorn},
		LuckyNumbers:  []int{3, 9, 12},
	},
}

// CharacteristicsOf returns the profile of s and false for an unknown sign.
func CharacteristicsOf(s Sign) (Characteristics, bool) {
	c, ok := characteristics[s]
	return c, ok
}
