package dokploy

// Project is the slice of the platform's project payload this server reads.
// Everything else in the response is passed through to callers untouched.
type Project struct {
	ProjectID   string `json:"projectId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`

	// Environments is nil when the payload carries no environment list at
	// all; an empty non-nil slice means the project exists with zero
	// environments. Scope validation depends on that distinction.
	Environments []Environment `json:"environments"`
}

// Environment is a project member. Payload versions disagree on the
// identifier key, so both are accepted.
type Environment struct {
	EnvironmentID string `json:"environmentId"`
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	ProjectID     string `json:"projectId,omitempty"`
}

// Matches reports whether this environment is identified by the given id
// under either accepted identifier key.
func (e Environment) Matches(id string) bool {
	if id == "" {
		return false
	}
	return e.EnvironmentID == id || e.ID == id
}
