package model

const (
	VariantSuccess = "success"
	VariantWarning = "warning"
	VariantError   = "error"
)

// Envelope is the JSON shape of every API response
type Envelope struct {
	Msg     string `json:"msg"`
	Variant string `json:"variant"`
	Payload any    `json:"payload"`
	Total   *int64 `json:"total,omitempty"`
	Token   string `json:"token,omitempty"`
}
