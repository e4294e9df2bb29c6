package feature

import "testing"

func TestExperience_CountsRanges(t *testing.T) {
	text := "Engineer 2018-2020 at Acme. Senior engineer 2020 – present at Beta."
	if got := Experience(text); got != "Found 2 work experiences" {
		t.Errorf("unexpected summary: %q", got)
	}
}

func TestExperience_PresentCaseInsensitive(t *testing.T) {
	if got := Experience("2019 - PRESENT"); got != "Found 1 work experiences" {
		t.Errorf("unexpected summary: %q", got)
	}
}

func TestExperience_NoRanges(t *testing.T) {
	if got := Experience("Worked for a while, dates unknown."); got != ExperienceNotIdentified {
		t.Errorf("unexpected summary: %q", got)
	}
}
