package domain

// User represents one authenticated member.
// ColorIndex is allocated once on first task ownership and never
// reassigned or freed. Contributions and ShortestSubmissions are
// maintained by the acceptance pipeline.
type User struct {
	DisplayName         string  `json:"displayName"`
	PhotoURL            string  `json:"photoURL"`
	Slug                string  `json:"slug"`
	SlackID             string  `json:"slackId"`
	Acknowledged        bool    `json:"acknowledged"`
	ColorIndex          *int    `json:"colorIndex"`
	Contributions       int     `json:"contributions"`
	ShortestSubmissions int     `json:"shortestSubmissions"`
	UserName            string  `json:"userName,omitempty"`
	PasswordHash        *string `json:"passwordHash,omitempty"`
	AuthProvider        string  `json:"authProvider,omitempty"`
}
