package analysis

// Step names reported through progress events, in execution order.
const (
	StepValidate  = "validate"
	StepCalibrate = "calibrate"
	StepScore     = "score"
	StepAggregate = "aggregate"
	StepExplain   = "explain"
	StepRewrite   = "rewrite"
	StepComplete  = "complete"
)

// ProgressEvent represents a progress update during an analysis
type ProgressEvent struct {
	Step       string `json:"step"`
	Stage      string `json:"stage,omitempty"`
	Message    string `json:"message"`
	AnalysisID string `json:"analysis_id,omitempty"`
	Content    any    `json:"content,omitempty"`
}

// ProgressCallback is called when analysis progress occurs. It may be called from several goroutines.
type ProgressCallback func(event ProgressEvent)

func (c ProgressCallback) emit(id, step, stage, message string, content any) {
	if c == nil {
		return
	}
	c(ProgressEvent{Step: step, Stage: stage, Message: message, AnalysisID: id, Content: content})
}
