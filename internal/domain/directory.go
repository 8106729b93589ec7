package domain

import "slices"

// DefaultUserName is the profile created on first start.
const DefaultUserName = "User"

// UserDirectory lists known profiles in creation order and remembers the last active one.
type UserDirectory struct {
	CurrentUser string
	AllUsers    []string
}

// DefaultDirectory is used when nothing has been stored yet.
func DefaultDirectory() UserDirectory {
	return UserDirectory{
		CurrentUser: DefaultUserName,
		AllUsers:    []string{DefaultUserName},
	}
}

// Clone returns a copy that shares nothing with d.
func (d UserDirectory) Clone() UserDirectory {
	return UserDirectory{
		CurrentUser: d.CurrentUser,
		AllUsers:    slices.Clone(d.AllUsers),
	}
}

// Contains reports whether name is a known profile.
func (d *UserDirectory) Contains(name string) bool {
	return slices.Contains(d.AllUsers, name)
}

// CheckAvailable validates name and rejects names already listed.
func (d *UserDirectory) CheckAvailable(name string) (string, error) {
	name, err := ValidateName(name)
	if err != nil {
		return "", err
	}
	if d.Contains(name) {
		return "", ErrDuplicateUser
	}
	return name, nil
}

// AddUser appends a new profile and makes it current.
func (d *UserDirectory) AddUser(name string) error {
	name, err := d.CheckAvailable(name)
	if err != nil {
		return err
	}
	d.AllUsers = append(d.AllUsers, name)
	d.CurrentUser = name
	return nil
}

// SwitchCurrent marks name as the active profile, listing it if it was unknown.
func (d *UserDirectory) SwitchCurrent(name string) {
	if !d.Contains(name) {
		d.AllUsers = append(d.AllUsers, name)
	}
	d.CurrentUser = name
}

// RenameCurrent replaces the current profile's entry in place and keeps it current.
func (d *UserDirectory) RenameCurrent(newName string) {
	if i := slices.Index(d.AllUsers, d.CurrentUser); i >= 0 {
		d.AllUsers[i] = newName
	} else {
		d.AllUsers = append(d.AllUsers, newName)
	}
	d.CurrentUser = newName
}

// Normalize repairs a loaded directory so CurrentUser is listed and names are unique.
func (d *UserDirectory) Normalize() {
	seen := make(map[string]struct{}, len(d.AllUsers))
	users := d.AllUsers[:0]
	for _, u := range d.AllUsers {
		if _, dup := seen[u]; dup || u == "" {
			continue
		}
		seen[u] = struct{}{}
		users = append(users, u)
	}
	d.AllUsers = users
	if d.CurrentUser == "" {
		if len(d.AllUsers) == 0 {
			*d = DefaultDirectory()
			return
		}
		d.CurrentUser = d.AllUsers[0]
	}
	if !d.Contains(d.CurrentUser) {
		d.AllUsers = append(d.AllUsers, d.CurrentUser)
	}
}
