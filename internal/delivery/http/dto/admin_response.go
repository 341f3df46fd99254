package dto

type TokenResponseData struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type RefreshResponseData struct {
	State string `json:"state"`
}
