package config

import "path/filepath"

// Home returns the tellerbot root directory (ResolveHome()).
func Home() string {
	return ResolveHome()
}

// LogsDir returns the log directory, fixed at home/logs.
func LogsDir() string {
	return filepath.Join(Home(), "logs")
}
