package domain

// WeatherStep records what happened to the forecast lookup for one delivery.
type WeatherStep string

const (
	WeatherSkipped  WeatherStep = "skipped"
	WeatherAttached WeatherStep = "attached"
	WeatherFailed   WeatherStep = "failed"
)

// Outcome is the terminal state of one estimate-sent delivery.
// Every outcome acknowledges the message.
type Outcome string

const (
	OutcomeSent         Outcome = "sent"
	OutcomeSendFailed   Outcome = "send_failed"
	OutcomeRenderFailed Outcome = "render_failed"
)

// Delivery summarises one pass through the estimate email pipeline.
type Delivery struct {
	EstimateID int64
	Weather    WeatherStep
	Outcome    Outcome
	Err        error
}
