package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spec-kit/backoffice/internal/api/dto"
	"github.com/spec-kit/backoffice/internal/domain"
)

// Credential store keys, one per session field.
const (
	KeyToken        = "token"
	KeyUserID       = "userId"
	KeyDisplayName  = "displayName"
	KeyCategoryCode = "categoryCode"
	KeyDesignation  = "designation"
	KeyBranchID     = "branchId"
	KeyGenderTag    = "genderTag"
	KeyReferenceDay = "referenceDay"
	KeyPrivileges   = "privileges"
	KeyAvatarBlob   = "avatarBlob"
)

// field maps one session attribute to its store key. decode leaves the
// session untouched when it fails, so the attribute keeps its zero value.
type field struct {
	key    string
	encode func(domain.Session) (string, error)
	decode func(*domain.Session, string) error
}

// fields lists every persisted attribute; the token comes first.
var fields = []field{
	{
		key:    KeyToken,
		encode: func(s domain.Session) (string, error) { return s.Token, nil },
		decode: func(s *domain.Session, v string) error { s.Token = v; return nil },
	},
	{
		key:    KeyUserID,
		encode: func(s domain.Session) (string, error) { return string(s.UserID), nil },
		decode: func(s *domain.Session, v string) error { s.UserID = domain.ID(v); return nil },
	},
	{
		key:    KeyDisplayName,
		encode: func(s domain.Session) (string, error) { return s.DisplayName, nil },
		decode: func(s *domain.Session, v string) error { s.DisplayName = v; return nil },
	},
	{
		key:    KeyCategoryCode,
		encode: func(s domain.Session) (string, error) { return s.CategoryCode, nil },
		decode: func(s *domain.Session, v string) error { s.CategoryCode = v; return nil },
	},
	{
		key: KeyDesignation,
		encode: func(s domain.Session) (string, error) {
			return encodeJSON(s.Designation)
		},
		decode: func(s *domain.Session, v string) error {
			d, err := parseJSON[*domain.Designation](v)
			if err != nil {
				return err
			}
			s.Designation = d
			return nil
		},
	},
	{
		key:    KeyBranchID,
		encode: func(s domain.Session) (string, error) { return string(s.BranchID), nil },
		decode: func(s *domain.Session, v string) error { s.BranchID = domain.ID(v); return nil },
	},
	{
		key:    KeyGenderTag,
		encode: func(s domain.Session) (string, error) { return s.GenderTag, nil },
		decode: func(s *domain.Session, v string) error { s.GenderTag = v; return nil },
	},
	{
		key:    KeyReferenceDay,
		encode: func(s domain.Session) (string, error) { return s.ReferenceDay, nil },
		decode: func(s *domain.Session, v string) error { s.ReferenceDay = v; return nil },
	},
	{
		key: KeyPrivileges,
		encode: func(s domain.Session) (string, error) {
			if len(s.Privileges) == 0 {
				return "[]", nil
			}
			return encodeJSON(s.Privileges)
		},
		decode: func(s *domain.Session, v string) error {
			p, err := parseJSON[[]string](v)
			if err != nil {
				return err
			}
			if len(p) == 0 {
				p = nil
			}
			s.Privileges = p
			return nil
		},
	},
	{
		key:    KeyAvatarBlob,
		encode: func(s domain.Session) (string, error) { return s.AvatarBlob, nil },
		decode: func(s *domain.Session, v string) error {
			if err := checkAvatar(v); err != nil {
				return err
			}
			s.AvatarBlob = v
			return nil
		},
	},
}

// Keys returns every store key a session occupies.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// parseJSON decodes a stored JSON value. An empty string or "null" is the zero
// value; anything that is not valid JSON of shape T is an error.
func parseJSON[T any](raw string) (T, error) {
	var out T
	if raw == "" || raw == "null" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		var zero T
		return zero, fmt.Errorf("parse %T: %w", out, err)
	}
	return out, nil
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return "", nil
	}
	return string(data), nil
}

// avatarEncodings are the base64 alphabets an avatar payload may use.
var avatarEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// checkAvatar is the single rule for avatar values, applied at login and on
// restore: empty, an http(s) URL, base64 in the standard or URL-safe alphabet
// with or without padding, or a data URI carrying such a payload.
func checkAvatar(v string) error {
	if v == "" {
		return nil
	}
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		if _, err := url.ParseRequestURI(v); err != nil {
			return fmt.Errorf("avatar: %w", err)
		}
		return nil
	}
	payload := v
	if strings.HasPrefix(v, "data:") {
		idx := strings.Index(v, ",")
		if idx < 0 || !strings.Contains(v[:idx], ";base64") {
			return errors.New("avatar: malformed data URI")
		}
		payload = v[idx+1:]
	}
	for _, enc := range avatarEncodings {
		if _, err := enc.DecodeString(payload); err == nil {
			return nil
		}
	}
	return errors.New("avatar: not base64")
}

// FromPayload maps a login response onto a Session. An avatar the restore
// path would reject is dropped here so both paths agree.
func FromPayload(p *dto.LoginResponse) domain.Session {
	s := domain.Session{
		Token:        p.Token,
		UserID:       p.User.ID,
		DisplayName:  p.User.Name,
		CategoryCode: p.User.Category,
		BranchID:     p.Branch,
		GenderTag:    p.User.Gender,
		ReferenceDay: p.CurrentDay,
	}
	if checkAvatar(p.EmployeePic) == nil {
		s.AvatarBlob = p.EmployeePic
	}
	if p.User.Designation != nil {
		d := *p.User.Designation
		s.Designation = &d
	}
	if len(p.Privileges) > 0 {
		s.Privileges = append([]string{}, p.Privileges...)
	}
	return s
}
