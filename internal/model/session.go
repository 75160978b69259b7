package model

// Session is the authenticated view of a staff account handed out at login.
// It lives in Redis under an idle TTL; any authenticated request re-arms the
// window, so expiry means "no activity for the whole window", not "N minutes
// after login".
type Session struct {
	Token       string   `json:"token"`
	StaffID     string   `json:"staff_id"`
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks the session's permission set.
func (s *Session) HasPermission(perm string) bool {
	for _, p := range s.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
