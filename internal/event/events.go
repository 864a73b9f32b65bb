package event

import "github.com/google/uuid"

// AttributesApplied reports that a render plan was applied to a
// session's attribute layer.
type AttributesApplied struct {
	Session    uuid.UUID
	Generation uint64
	Matches    int
}

// RenderingState reports background analysis starting or stopping.
type RenderingState struct {
	Session uuid.UUID
	Busy    bool
}

// ConfigReloaded reports that the settings file changed on disk.
type ConfigReloaded struct {
	Path string
}
