package domain

import (
	"errors"
	"slices"
	"testing"
)

func TestAddUserMakesCurrent(t *testing.T) {
	d := DefaultDirectory()
	if err := d.AddUser("Alice"); err != nil {
		t.Fatalf("add user: %v", err)
	}
	if !slices.Equal(d.AllUsers, []string{"User", "Alice"}) || d.CurrentUser != "Alice" {
		t.Fatalf("unexpected directory %+v", d)
	}
}

func TestAddUserRejectsDuplicates(t *testing.T) {
	d := DefaultDirectory()
	_ = d.AddUser("Alicia")
	before := d.Clone()

	if err := d.AddUser(" Alicia "); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if !slices.Equal(d.AllUsers, before.AllUsers) || d.CurrentUser != before.CurrentUser {
		t.Fatalf("directory mutated on rejected add: %+v", d)
	}
}

func TestRenameCurrentKeepsOrder(t *testing.T) {
	d := UserDirectory{CurrentUser: "Alice", AllUsers: []string{"User", "Alice", "Bob"}}
	d.RenameCurrent("Alicia")
	if !slices.Equal(d.AllUsers, []string{"User", "Alicia", "Bob"}) || d.CurrentUser != "Alicia" {
		t.Fatalf("unexpected directory %+v", d)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := DefaultDirectory()
	c := d.Clone()
	c.AllUsers[0] = "changed"
	if d.AllUsers[0] != DefaultUserName {
		t.Fatalf("clone shares storage with original")
	}
}

func TestNormalize(t *testing.T) {
	d := UserDirectory{CurrentUser: "Zed", AllUsers: []string{"A", "", "A", "B"}}
	d.Normalize()
	if !slices.Equal(d.AllUsers, []string{"A", "B", "Zed"}) {
		t.Fatalf("unexpected users %v", d.AllUsers)
	}

	empty := UserDirectory{}
	empty.Normalize()
	if empty.CurrentUser != DefaultUserName || len(empty.AllUsers) != 1 {
		t.Fatalf("expected default directory, got %+v", empty)
	}
}

func TestValidateName(t *testing.T) {
	for _, bad := range []string{"", "   ", "a/b", `a\b`, ".hidden", "userlist", "c:d"} {
		if _, err := ValidateName(bad); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected %q to be rejected, got %v", bad, err)
		}
	}
	got, err := ValidateName("  Alice  ")
	if err != nil || got != "Alice" {
		t.Fatalf("expected trimmed name, got %q (%v)", got, err)
	}
}
