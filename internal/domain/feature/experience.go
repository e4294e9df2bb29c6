package feature

import (
	"fmt"
	"regexp"
)

// ExperienceNotIdentified is returned when no date ranges were detected.
const ExperienceNotIdentified = "Experience details not clearly identified"

// Year ranges like "2018-2020" or "2019 – present" (hyphen or en-dash).
var experienceRegex = regexp.MustCompile(`(?i)\d{4}\s*[-–]\s*(?:\d{4}|present)`)

// Experience summarizes work history as a coarse date-range count.
// This is a proxy signal, not duration arithmetic.
func Experience(text string) string {
	n := len(experienceRegex.FindAllString(text, -1))
	if n > 0 {
		return fmt.Sprintf("Found %d work experiences", n)
	}
	return ExperienceNotIdentified
}
