package events

// Source identifies who caused a change.
type Source string

const (
	// SourceUser marks changes caused by the person editing.
	SourceUser Source = "user"

	// SourceAPI marks changes made programmatically.
	SourceAPI Source = "api"

	// SourceSilent marks internal bookkeeping that listeners may ignore.
	// Selection changes with this source are not published on
	// TopicSelectionChange.
	SourceSilent Source = "silent"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceUser, SourceAPI, SourceSilent:
		return true
	}
	return false
}

func (s Source) String() string {
	return string(s)
}
