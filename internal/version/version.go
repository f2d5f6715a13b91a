// Package version holds build identity, overridable via -ldflags.
package version

var (
	AppName   = "emotion-bot"
	Version   = "dev"
	BuildDate = "unknown"
)
