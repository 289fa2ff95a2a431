package valueobjects

type EventAction string

const (
	ActionCreate        EventAction = "CREATE"
	ActionConfirm       EventAction = "CONFIRM"
	ActionAssign        EventAction = "ASSIGN"
	ActionUploadReceipt EventAction = "UPLOAD_RECEIPT"
	ActionComplete      EventAction = "COMPLETE"
	ActionCancel        EventAction = "CANCEL"
	ActionStatusChange  EventAction = "STATUS_CHANGE"
)

func (a EventAction) String() string {
	return string(a)
}

func (a EventAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionConfirm, ActionAssign, ActionUploadReceipt,
		ActionComplete, ActionCancel, ActionStatusChange:
		return true
	}
	return false
}

// AssignmentMethod records how a technician was chosen.
type AssignmentMethod string

const (
	AssignmentAuto   AssignmentMethod = "auto"
	AssignmentManual AssignmentMethod = "manual"
)
