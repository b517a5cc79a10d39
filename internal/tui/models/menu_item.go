package models

// MenuItem is a navigation link on the landing page
// Implements list.DefaultItem
type MenuItem struct {
	Label  string
	Hint   string
	Target string
}

func (i MenuItem) Title() string {
	return i.Label
}

func (i MenuItem) Description() string {
	return i.Hint
}

func (i MenuItem) FilterValue() string {
	return i.Label
}
