package model

// CategoryCount is one row of a category count listing.
type CategoryCount struct {
	Name  string
	Count int
}

// CategoryNode is a main category with its lazily loaded sub categories.
type CategoryNode struct {
	Name     string
	Count    int
	Expanded bool

	// Loaded is set once the children have been fetched.
	Loaded   bool
	Children []CategoryCount
}
