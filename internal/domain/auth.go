package domain

type Provider string

const (
	ProviderSlack Provider = "slack"
	ProviderLocal Provider = "local"
)

type AuthPayload struct {
	UserID     string   `json:"userId"`
	Username   string   `json:"username"`
	Permission []string `json:"permission"`
}

// AuthRequest carries the credentials of one login attempt; which fields
// are set depends on the provider.
type AuthRequest struct {
	Code     string `json:"code,omitempty"`
	UserName string `json:"userName,omitempty"`
	Password string `json:"password,omitempty"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
