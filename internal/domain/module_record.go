package domain

// ModuleRecord is the stored, flat form of a module tree entry.
type ModuleRecord struct {
	Name       string
	Title      string
	Path       string
	Icon       string
	ParentName string
	Position   int
	Privilege  string
}
