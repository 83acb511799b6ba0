package dialogue

import (
	"maps"
	"time"
)

const (
	MethodGreeting = "greeting_detection"
	MethodExit     = "conversation_exit"

	GreetingTag = "greeting"
	EmptyTag    = "empty"
)

// Context is the per-conversation state. The zero value is the IDLE state.
type Context struct {
	CurrentTopic      string         `json:"current_topic,omitempty"`
	ExpectingFollowup bool           `json:"expecting_followup"`
	FollowupStep      int            `json:"followup_step"`
	LastIntent        string         `json:"last_intent,omitempty"`
	UserData          map[string]any `json:"user_data,omitempty"`
}

func (c Context) Snapshot() Context {
	c.UserData = maps.Clone(c.UserData)
	return c
}

func (c Context) Idle() bool {
	return !c.ExpectingFollowup
}

func (c *Context) leaveFlow() {
	c.ExpectingFollowup = false
	c.FollowupStep = 0
	c.CurrentTopic = ""
}

type TurnRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	User       string    `json:"user"`
	Bot        string    `json:"bot"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Method     string    `json:"method"`
	Context    Context   `json:"context"`
}

type TurnResult struct {
	Response          string    `json:"response"`
	Intent            string    `json:"intent"`
	Confidence        float64   `json:"confidence"`
	Method            string    `json:"method"`
	ExpectingFollowup bool      `json:"expecting_followup"`
	CurrentTopic      string    `json:"current_topic,omitempty"`
	Rejected          bool      `json:"-"`
	Timestamp         time.Time `json:"timestamp"`
}
