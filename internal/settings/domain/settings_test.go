package settings

import (
	"testing"
)

func TestNormalizeCleansUsers(t *testing.T) {
	params := &TestParameters{
		AuthorizedUsers: []AuthorizedUser{
			{ID: "1", Name: "  John Doe  "},
			{ID: "new-abc123", Name: "Fresh Operator"},
			{ID: "2", Name: "   "},
			{ID: "", Name: "Another"},
		},
	}
	params.Normalize()

	if len(params.AuthorizedUsers) != 3 {
		t.Fatalf("users = %d, want 3", len(params.AuthorizedUsers))
	}
	if params.AuthorizedUsers[0].Name != "John Doe" {
		t.Fatalf("name not trimmed: %q", params.AuthorizedUsers[0].Name)
	}
	if params.AuthorizedUsers[1].ID != "2" {
		t.Fatalf("placeholder id not reassigned: %q", params.AuthorizedUsers[1].ID)
	}
	if params.AuthorizedUsers[2].ID != "3" {
		t.Fatalf("empty id not reassigned: %q", params.AuthorizedUsers[2].ID)
	}
	if params.Ranges == nil {
		t.Fatalf("normalize must leave a non-nil ranges map")
	}
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	if err := valid.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	inverted := &TestParameters{Ranges: map[string]ParameterRange{"sulphite": {Min: 50, Max: 20}}}
	if err := inverted.Validate(); err != nil {
		t.Fatalf("inverted range must pass validation: %v", err)
	}
	if !inverted.Ranges["sulphite"].Inverted() {
		t.Fatalf("expected range to report inverted")
	}

	emptyKey := &TestParameters{Ranges: map[string]ParameterRange{" ": {Min: 0, Max: 1}}}
	if err := emptyKey.Validate(); err == nil {
		t.Fatalf("empty parameter key must be rejected")
	}

	namelessUser := &TestParameters{AuthorizedUsers: []AuthorizedUser{{ID: "1"}}}
	if err := namelessUser.Validate(); err == nil {
		t.Fatalf("user without name must be rejected")
	}
}

func TestRangeFor(t *testing.T) {
	params := Defaults()
	if rng := params.RangeFor("sulphite"); rng == nil || rng.Min != 20 || rng.Max != 50 {
		t.Fatalf("sulphite range = %+v, want 20-50", rng)
	}
	if rng := params.RangeFor("unknownParameter"); rng != nil {
		t.Fatalf("unknown key must resolve to nil, got %+v", rng)
	}

	// The returned pointer is a copy, not a handle into the map.
	rng := params.RangeFor("sulphite")
	rng.Min = 999
	if params.Ranges["sulphite"].Min != 20 {
		t.Fatalf("mutating the returned range leaked into the blob")
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := Defaults()
	clone := original.Clone()

	clone.Ranges["sulphite"] = ParameterRange{Min: 1, Max: 2}
	clone.AuthorizedUsers[0].Name = "Changed"

	if original.Ranges["sulphite"].Min != 20 {
		t.Fatalf("clone shares the ranges map")
	}
	if original.AuthorizedUsers[0].Name != "John Doe" {
		t.Fatalf("clone shares the users slice")
	}
}

func TestUserName(t *testing.T) {
	params := Defaults()
	if name := params.UserName("2"); name != "Jane Smith" {
		t.Fatalf("UserName(2) = %q, want Jane Smith", name)
	}
	if name := params.UserName("missing"); name != "" {
		t.Fatalf("unknown user must resolve empty, got %q", name)
	}
}
