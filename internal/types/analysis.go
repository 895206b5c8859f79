package types

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// AnalysisRequest is the input to a single funnel analysis.
type AnalysisRequest struct {
	ParsedResume     ParsedResume `json:"parsed_resume"`
	ResumeText       string       `json:"resume_text" validate:"required,min=1"`
	JobDescription   string       `json:"job_description" validate:"required,min=1"`
	ATSSystem        string       `json:"ats_system,omitempty" validate:"omitempty,max=64"`
	RecruiterPersona string       `json:"recruiter_persona,omitempty" validate:"omitempty,max=64"`
	RoleLevel        string       `json:"role_level,omitempty" validate:"omitempty,role_level"`
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("role_level", func(fl validator.FieldLevel) bool {
		_, err := ParseRoleLevel(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate validates the AnalysisRequest using the validator.
func (r *AnalysisRequest) Validate() error {
	return requestValidator.Struct(r)
}

// AnalysisResult is everything a caller receives for one analysis.
type AnalysisResult struct {
	AnalysisID  string          `json:"analysis_id"`
	RoleLevel   RoleLevel       `json:"role_level"`
	ATS         ATSResult       `json:"ats"`
	Recruiter   RecruiterResult `json:"recruiter"`
	Interview   InterviewResult `json:"interview"`
	Aggregate   AggregatedScore `json:"aggregate"`
	Explanation Explanation     `json:"explanation"`
	Enhanced    bool            `json:"enhanced"`
	GeneratedAt time.Time       `json:"generated_at"`
}
