package config

// NewRulesWithPath builds a Rules config pointing at the given file,
// bypassing flag parsing in tests
func NewRulesWithPath(path string) *Rules {
	return &Rules{path: path}
}
