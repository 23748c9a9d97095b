package logging

import "go.uber.org/zap"

// New returns a zap logger for the given environment. Local and test
// environments get the human-readable development config at debug
// level; everything else gets the JSON production config at info
// level.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "local", "test":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}
