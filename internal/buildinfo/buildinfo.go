// Package buildinfo reports the version stamped into the binary at link time.
package buildinfo

import "go.uber.org/zap"

const notAvailable = "N/A"

// Info is the build metadata set through -ldflags.
type Info struct {
	Version string
	Date    string
	Commit  string
}

// New fills empty values with "N/A".
func New(version, date, commit string) Info {
	return Info{
		Version: orNA(version),
		Date:    orNA(date),
		Commit:  orNA(commit),
	}
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// Log writes the build metadata as one structured entry.
func (i Info) Log(logger *zap.SugaredLogger) {
	logger.Infow("build info",
		"version", i.Version,
		"date", i.Date,
		"commit", i.Commit,
	)
}
