package config

type SlackAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
}

func NewSlackAuthConfig() *SlackAuthConfig {
	return &SlackAuthConfig{
		ClientID:     getEnv("SLACK_CLIENT_ID", ""),
		ClientSecret: getEnv("SLACK_CLIENT_SECRET", ""),
		RedirectURL:  getEnv("SLACK_REDIRECT_URL", ""),
		AuthURL:      getEnv("SLACK_AUTH_URL", "https://slack.com/openid/connect/authorize"),
		TokenURL:     getEnv("SLACK_TOKEN_URL", "https://slack.com/api/openid.connect.token"),
		UserInfoURL:  getEnv("SLACK_USERINFO_URL", "https://slack.com/api/openid.connect.userInfo"),
	}
}
