package auth

// Credential is the persisted login identity. It is read here and owned by
// the user administration module.
type Credential struct {
	UserID       int64
	CollegeID    *int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
}

// UserProfile is the denormalized display block returned by login.
type UserProfile struct {
	UserID      int64   `json:"user_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	RoleID      *int64  `json:"role_id"`
	RoleName    *string `json:"role_name"`
	CollegeID   *int64  `json:"college_id"`
	CollegeName *string `json:"college_name"`
}

// LoginResult is the full login response body.
type LoginResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	User         UserProfile `json:"user"`
	Permissions  []string    `json:"permissions"`
}

// MeResult describes the current principal with live display data.
type MeResult struct {
	UserID       int64    `json:"user_id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	RoleID       *int64   `json:"role_id"`
	RoleName     *string  `json:"role_name"`
	CollegeID    *int64   `json:"college_id"`
	CollegeName  *string  `json:"college_name"`
	Permissions  []string `json:"permissions"`
	IsSuperAdmin bool     `json:"is_super_admin"`
}
