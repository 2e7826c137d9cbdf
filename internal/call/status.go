package call

// Status is the user-facing state of a call
type Status string

const (
	StatusIdle             Status = "Not Connected"
	StatusConnecting       Status = "Connecting..."
	StatusActive           Status = "Active"
	StatusThinking         Status = "Thinking..."
	StatusAnalysing        Status = "Analysing..."
	StatusCompleted        Status = "Completed"
	StatusEnded            Status = "Ended"
	StatusSessionExpired   Status = "Session Expired"
	StatusError            Status = "Error"
	StatusConfigError      Status = "Config Error"
	StatusMicError         Status = "Mic Error"
	StatusNoMicFound       Status = "No Mic Found"
	StatusConnectionFailed Status = "Connection Failed"
)

func (s Status) String() string {
	return string(s)
}

// InCall reports whether messages can be exchanged
func (s Status) InCall() bool {
	return s == StatusActive || s == StatusThinking
}

// finalizing is true once the consultation is being or has been saved
func (s Status) finalizing() bool {
	return s == StatusAnalysing || s == StatusCompleted
}
