package domain

// Designation carries the organisational position attached to a session.
type Designation struct {
	ID         ID     `json:"id,omitempty"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
}

// Session is the authenticated identity held in memory and mirrored into the
// credential store field by field.
type Session struct {
	Token        string
	UserID       ID
	DisplayName  string
	CategoryCode string
	Designation  *Designation
	BranchID     ID
	GenderTag    string
	ReferenceDay string
	Privileges   []string
	AvatarBlob   string
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Clone returns a deep copy so callers cannot mutate the owner's state.
func (s Session) Clone() Session {
	out := s
	if s.Designation != nil {
		d := *s.Designation
		out.Designation = &d
	}
	if s.Privileges != nil {
		out.Privileges = append([]string{}, s.Privileges...)
	}
	return out
}

// HasPrivilege reports whether the session was granted the named privilege.
func (s Session) HasPrivilege(name string) bool {
	for _, p := range s.Privileges {
		if p == name {
			return true
		}
	}
	return false
}
