package model

import "testing"

func TestParseContentType(t *testing.T) {
	for _, raw := range []string{"status", "document", "blog"} {
		got, err := ParseContentType(raw)
		if err != nil {
			t.Fatalf("ParseContentType(%q) returned error: %v", raw, err)
		}
		if string(got) != raw {
			t.Errorf("ParseContentType(%q) = %q", raw, got)
		}
	}

	for _, raw := range []string{"", "essay", "Status"} {
		_, err := ParseContentType(raw)
		apiErr, ok := err.(*APIError)
		if !ok {
			t.Fatalf("ParseContentType(%q) error = %v, want *APIError", raw, err)
		}
		if apiErr.Code != ErrCodeInvalidContentType {
			t.Errorf("code = %q, want %q", apiErr.Code, ErrCodeInvalidContentType)
		}
	}
}

func TestRole(t *testing.T) {
	if !RoleInternal.Valid() || !RoleGuest.Valid() {
		t.Error("predefined roles should be valid")
	}
	if Role("superuser").Valid() {
		t.Error("unknown role should be invalid")
	}
	if !RoleAdmin.CanPostStatus() || !RoleInternal.CanPostStatus() {
		t.Error("internal and admin should be able to post status updates")
	}
	if RoleExternal.CanPostStatus() || RoleGuest.CanPostStatus() {
		t.Error("external and guest should not be able to post status updates")
	}
}

func TestVisibilityType_Valid(t *testing.T) {
	if !VisibilityPlace.Valid() || !VisibilityPersonalBlog.Valid() {
		t.Error("predefined visibility should be valid")
	}
	if VisibilityType("public").Valid() {
		t.Error("unknown visibility should be invalid")
	}
}
