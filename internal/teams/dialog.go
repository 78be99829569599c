package teams

// ModeKind distinguishes creating a new entity from editing an existing one.
type ModeKind int

const (
	ModeCreate ModeKind = iota
	ModeEdit
)

// Mode is the dialog's target: Create, or Edit of the entity with TargetID.
type Mode struct {
	Kind     ModeKind
	TargetID string
}

// CreateMode returns the create variant.
func CreateMode() Mode { return Mode{Kind: ModeCreate} }

// EditMode returns the edit variant for id.
func EditMode(id string) Mode { return Mode{Kind: ModeEdit, TargetID: id} }

// IsEdit reports whether the dialog edits an existing entity.
func (m Mode) IsEdit() bool { return m.Kind == ModeEdit }

// TeamForm is the editable content of the team dialog.
type TeamForm struct {
	Name        string
	Description string
}

// MemberForm is the editable content of the member dialog.
type MemberForm struct {
	Name  string
	Email string
	Role  string
}

// TeamDialog is the create/edit team dialog.
type TeamDialog struct {
	Open bool
	Mode Mode
	Form TeamForm
}

// MemberDialog is the create/edit member dialog, scoped to TeamID.
type MemberDialog struct {
	Open   bool
	Mode   Mode
	TeamID string
	Form   MemberForm
}
