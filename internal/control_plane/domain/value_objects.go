package domain

// ID is the stable identifier of a record. Assigned once at build time and
// never reassigned.
type ID string

func (i ID) String() string {
	return string(i)
}

// Stage names one of the two independently addressable snapshots of a record.
type Stage string

const (
	// StageDraft is the editable, not-yet-public snapshot.
	StageDraft Stage = "draft"
	// StageLive is the published snapshot visible to end users.
	StageLive Stage = "live"
)

func (s Stage) IsValid() bool {
	return s == StageDraft || s == StageLive
}
