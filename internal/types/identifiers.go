package types

import "strings"

// ATSSystem identifies the applicant tracking system a résumé is submitted through.
// It is echoed back in results and never changes scoring.
type ATSSystem string

// Known ATS systems
const (
	ATSGeneric    ATSSystem = "generic"
	ATSWorkday    ATSSystem = "workday"
	ATSGreenhouse ATSSystem = "greenhouse"
	ATSLever      ATSSystem = "lever"
	ATSTaleo      ATSSystem = "taleo"
	ATSICIMS      ATSSystem = "icims"
	ATSOther      ATSSystem = "other"
)

// RecruiterPersona identifies the reviewer archetype for the recruiter stage.
// Like ATSSystem it is an opaque passthrough.
type RecruiterPersona string

// Known recruiter personas
const (
	PersonaGeneralist RecruiterPersona = "generalist"
	PersonaTechnical  RecruiterPersona = "technical"
	PersonaExecutive  RecruiterPersona = "executive"
	PersonaStartup    RecruiterPersona = "startup"
	PersonaAgency     RecruiterPersona = "agency"
	PersonaOther      RecruiterPersona = "other"
)

// NormalizeATSSystem maps free-form input onto the closed ATSSystem set.
// Empty input becomes ATSGeneric, unrecognised input becomes ATSOther.
func NormalizeATSSystem(s string) ATSSystem {
	switch v := ATSSystem(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return ATSGeneric
	case ATSGeneric, ATSWorkday, ATSGreenhouse, ATSLever, ATSTaleo, ATSICIMS, ATSOther:
		return v
	default:
		return ATSOther
	}
}

// NormalizeRecruiterPersona maps free-form input onto the closed RecruiterPersona set.
func NormalizeRecruiterPersona(s string) RecruiterPersona {
	switch v := RecruiterPersona(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return PersonaGeneralist
	case PersonaGeneralist, PersonaTechnical, PersonaExecutive, PersonaStartup, PersonaAgency, PersonaOther:
		return v
	default:
		return PersonaOther
	}
}
