package types

// ParsedResume is the structured résumé produced by the document parser.
type ParsedResume struct {
	PersonalInfo   PersonalInfo     `json:"personal_info"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Education      []Education      `json:"education"`
	Skills         []string         `json:"skills"`
}

// PersonalInfo carries the contact details the scorers check for presence.
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// HasEmail reports whether an email address was parsed.
func (p PersonalInfo) HasEmail() bool { return p.Email != "" }

// HasPhone reports whether a phone number was parsed.
func (p PersonalInfo) HasPhone() bool { return p.Phone != "" }

// WorkExperience is a single position in the candidate's work history.
// Dates are "YYYY-MM" or "YYYY"; EndDate may be "present" or empty for a current role.
type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is a single education entry
type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree,omitempty"`
	Field        string `json:"field,omitempty"`
	GraduationAt string `json:"graduation_date,omitempty"`
}
