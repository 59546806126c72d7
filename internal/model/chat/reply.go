package chat

// Reply is the wire-level result of a chat or proactive generation. Model
// always reflects the override actually applied for that single call.
type Reply struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
}

// HealthReport describes whether the configured provider can be reached.
type HealthReport struct {
	Status            string `json:"status"` // healthy | degraded | unhealthy
	Provider          string `json:"provider"`
	Model             string `json:"model"`
	ProviderAvailable bool   `json:"provider_available"`
	Message           string `json:"message,omitempty"`
}
