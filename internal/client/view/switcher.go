// Package view holds the framework-agnostic view model: which regions are
// visible, and pure functions turning session and feed state into the
// navigation and feed trees.
package view

// Name identifies one of the mutually exclusive views.
type Name string

const (
	NameAuth   Name = "auth"
	NamePosts  Name = "posts"
	NameCreate Name = "create"
	NameEdit   Name = "edit"
)

// Region is an area of the screen that is either shown or hidden.
type Region string

const (
	RegionAuth  Region = "auth"
	RegionPosts Region = "posts"
	// RegionEditor is the container shared by the create and edit forms.
	RegionEditor     Region = "editor"
	RegionCreateForm Region = "create-form"
	RegionEditForm   Region = "edit-form"
)

// Regions lists every region in display order.
var Regions = []Region{RegionAuth, RegionPosts, RegionEditor, RegionCreateForm, RegionEditForm}

// Switcher tracks the active view and the resulting region visibility.
// The zero value has every region hidden.
type Switcher struct {
	active  Name
	visible map[Region]bool
}

// Show hides every region, then reveals the ones belonging to name. The
// result depends only on name.
func (s *Switcher) Show(name Name) {
	if s.visible == nil {
		s.visible = make(map[Region]bool, len(Regions))
	}
	for _, r := range Regions {
		s.visible[r] = false
	}
	s.active = name

	switch name {
	case NameAuth:
		s.visible[RegionAuth] = true
	case NamePosts:
		s.visible[RegionPosts] = true
	case NameCreate:
		s.visible[RegionEditor] = true
		s.visible[RegionCreateForm] = true
	case NameEdit:
		s.visible[RegionEditor] = true
		s.visible[RegionEditForm] = true
	}
}

// Active returns the last name passed to Show.
func (s *Switcher) Active() Name {
	return s.active
}

// Visible reports whether r is currently shown.
func (s *Switcher) Visible(r Region) bool {
	return s.visible[r]
}

// Snapshot copies the visibility of every region.
func (s *Switcher) Snapshot() map[Region]bool {
	out := make(map[Region]bool, len(Regions))
	for _, r := range Regions {
		out[r] = s.visible[r]
	}
	return out
}
