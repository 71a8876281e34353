package config

// LevelNames returns the accepted log level names
func LevelNames() []string {
	names := make([]string, 0, len(levelMap))
	for name := range levelMap {
		names = append(names, name)
	}
	return names
}
