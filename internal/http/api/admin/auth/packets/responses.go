package packets

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type ProfileResponse struct {
	Username string `json:"username"`
}
