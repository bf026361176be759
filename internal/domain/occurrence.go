package domain

// Occurrence is one concrete reminder instance derived from a schedule: a
// calendar date ("2006-01-02"), a time of day ("HH:MM") and a tone.
type Occurrence struct {
	Date string `json:"date"`
	Time string `json:"time"`
	Tone Tone   `json:"tone"`
}
