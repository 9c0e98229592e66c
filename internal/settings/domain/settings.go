package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrVersionConflict is returned when a save carries a stale version.
var ErrVersionConflict = errors.New("settings: version conflict")

// ParameterRange is an inclusive acceptable range for a tested parameter.
// Min > Max is tolerated, not rejected: such a range classifies every value
// out of spec, which is an operator configuration hazard rather than an
// invariant this type enforces.
type ParameterRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Inverted reports whether the range can never be satisfied.
func (r ParameterRange) Inverted() bool { return r.Min > r.Max }

// AuthorizedUser is a named individual eligible to be recorded as the
// tester on an entry. It is a label, not an authentication principal.
type AuthorizedUser struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// CustomParameter is an operator-defined parameter from earlier schema
// revisions. Kept so older persisted blobs survive a round trip.
type CustomParameter struct {
	ID   string  `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`
	Unit string  `json:"unit" yaml:"unit"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
}

// TestParameters is the whole settings blob: acceptable ranges keyed by
// parameter key, plus authorized users. It is replaced wholesale on every
// save; Version increments on each replacement.
type TestParameters struct {
	Version          int                       `json:"version"`
	Ranges           map[string]ParameterRange `json:"ranges" yaml:"ranges"`
	AuthorizedUsers  []AuthorizedUser          `json:"authorizedUsers" yaml:"authorized_users"`
	CustomParameters []CustomParameter         `json:"customParameters,omitempty" yaml:"custom_parameters"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
}

// RangeFor returns the configured range for a parameter key, or nil when the
// key is not configured. Unknown keys are expected across schema revisions.
func (p *TestParameters) RangeFor(key string) *ParameterRange {
	if p == nil || p.Ranges == nil {
		return nil
	}
	rng, ok := p.Ranges[key]
	if !ok {
		return nil
	}
	return &rng
}

// UserName resolves an authorized user id to a display name.
func (p *TestParameters) UserName(id string) string {
	if p == nil || id == "" {
		return ""
	}
	for _, user := range p.AuthorizedUsers {
		if user.ID == id {
			return user.Name
		}
	}
	return ""
}

// Clone returns a deep copy so callers can treat the blob as a value
// replaced by assignment, never partially mutated.
func (p *TestParameters) Clone() *TestParameters {
	if p == nil {
		return nil
	}
	out := &TestParameters{
		Version:   p.Version,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Ranges != nil {
		out.Ranges = make(map[string]ParameterRange, len(p.Ranges))
		for key, rng := range p.Ranges {
			out.Ranges[key] = rng
		}
	}
	if p.AuthorizedUsers != nil {
		out.AuthorizedUsers = append([]AuthorizedUser(nil), p.AuthorizedUsers...)
	}
	if p.CustomParameters != nil {
		out.CustomParameters = append([]CustomParameter(nil), p.CustomParameters...)
	}
	return out
}

// Normalize cleans up a blob the way the settings editor saves it: user
// names are trimmed, users without a name are dropped, and users added by
// the editor (empty or placeholder ids) receive sequential ids.
func (p *TestParameters) Normalize() {
	if p == nil {
		return
	}
	users := p.AuthorizedUsers[:0]
	for _, user := range p.AuthorizedUsers {
		user.Name = strings.TrimSpace(user.Name)
		if user.Name == "" {
			continue
		}
		users = append(users, user)
	}
	for i := range users {
		if users[i].ID == "" || strings.HasPrefix(users[i].ID, "new-") {
			users[i].ID = fmt.Sprintf("%d", i+1)
		}
	}
	p.AuthorizedUsers = users
	if p.Ranges == nil {
		p.Ranges = map[string]ParameterRange{}
	}
}

// Validate checks the blob is storable. Inverted ranges pass on purpose.
func (p *TestParameters) Validate() error {
	if p == nil {
		return errors.New("settings: nil parameters")
	}
	for key := range p.Ranges {
		if strings.TrimSpace(key) == "" {
			return errors.New("settings: empty parameter key")
		}
	}
	for _, user := range p.AuthorizedUsers {
		if user.ID == "" {
			return errors.New("settings: authorized user without id")
		}
		if strings.TrimSpace(user.Name) == "" {
			return errors.New("settings: authorized user without name")
		}
	}
	return nil
}

// Defaults returns the first-launch settings blob. Values mirror the ranges
// the site has run with historically.
func Defaults() *TestParameters {
	return &TestParameters{
		Version: 1,
		Ranges: map[string]ParameterRange{
			"sulphite":               {Min: 20, Max: 50},
			"alkalinity":             {Min: 150, Max: 350},
			"boilerPh":               {Min: 10.5, Max: 11.5},
			"tdsProbeReadout":        {Min: 0, Max: 3500},
			"tdsLevelCheck":          {Min: 0, Max: 3500},
			"feedWaterHardness":      {Min: 0, Max: 5},
			"feedWaterPh":            {Min: 7, Max: 9.5},
			"boilerSoftenerHardness": {Min: 0, Max: 5},
			"condensateHardness":     {Min: 0, Max: 5},
			"condensateTds":          {Min: 0, Max: 100},
			"condensatePh":           {Min: 7, Max: 9},
		},
		AuthorizedUsers: []AuthorizedUser{
			{ID: "1", Name: "John Doe"},
			{ID: "2", Name: "Jane Smith"},
		},
	}
}
