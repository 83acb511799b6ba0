package chat

type ChatRequest struct {
	Message   *string `json:"message" validate:"required"`
	SessionID string  `json:"session_id" validate:"omitempty,max=64"`
}

type ChatResponse struct {
	Success           bool     `json:"success"`
	Intent            string   `json:"intent"`
	Confidence        float64  `json:"confidence"`
	Response          string   `json:"response"`
	Method            string   `json:"method"`
	ModelAvailable    bool     `json:"model_available"`
	IntentsCount      int      `json:"intents_count"`
	ExpectingFollowup bool     `json:"expecting_followup"`
	CurrentTopic      *string  `json:"current_topic"`
	SessionID         string   `json:"session_id"`
	Timestamp         string   `json:"timestamp"`
	Suggestions       []string `json:"suggestions,omitempty"`
}

type HistoryQuery struct {
	SessionID string `query:"session_id" validate:"omitempty,max=64"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

type ContextView struct {
	CurrentTopic      *string        `json:"current_topic"`
	LastIntent        *string        `json:"last_intent"`
	ExpectingFollowup bool           `json:"expecting_followup"`
	FollowupStep      int            `json:"followup_step"`
	UserData          map[string]any `json:"user_data"`
}

type HistoryEntry struct {
	Timestamp  string      `json:"timestamp"`
	User       string      `json:"user"`
	Bot        string      `json:"bot"`
	Intent     string      `json:"intent"`
	Confidence float64     `json:"confidence"`
	Method     string      `json:"method"`
	Context    ContextView `json:"context"`
}

type HistoryResponse struct {
	Success       bool           `json:"success"`
	SessionID     string         `json:"session_id"`
	History       []HistoryEntry `json:"history"`
	TotalMessages int            `json:"total_messages"`
	Context       ContextView    `json:"context"`
}

type ResetRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=64"`
}

type ResetResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type HealthResponse struct {
	Success           bool   `json:"success"`
	Status            string `json:"status"`
	Service           string `json:"service"`
	ModelLoaded       bool   `json:"model_loaded"`
	IntentsLoaded     int    `json:"intents_loaded"`
	ConversationFlows int    `json:"conversation_flows"`
	ActiveSessions    int    `json:"active_sessions"`
	Timestamp         string `json:"timestamp"`
}

type IntentSummary struct {
	Tag       string `json:"tag"`
	Patterns  int    `json:"patterns"`
	Responses int    `json:"responses"`
	HasFlow   bool   `json:"has_flow"`
}

type IntentsResponse struct {
	Success      bool            `json:"success"`
	TotalIntents int             `json:"total_intents"`
	Intents      []IntentSummary `json:"intents"`
}

type InfoResponse struct {
	Success        bool     `json:"success"`
	Service        string   `json:"service"`
	Version        string   `json:"version"`
	Mode           string   `json:"mode"`
	ModelAvailable bool     `json:"model_available"`
	IntentsCount   int      `json:"intents_count"`
	ActiveSessions int      `json:"active_sessions"`
	Uptime         string   `json:"uptime"`
	FlowTopics     []string `json:"flow_topics"`
	Endpoints      []string `json:"endpoints"`
}

// WSMessage is one client frame on the chat websocket.
type WSMessage struct {
	Message   *string `json:"message" validate:"required"`
	SessionID string  `json:"session_id" validate:"omitempty,max=64"`
}

type WSError struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Response string `json:"response,omitempty"`
}
