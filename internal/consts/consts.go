package consts

// Role is the permission level of a list member.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
)

func (r Role) Valid() bool { return r == RoleViewer || r == RoleEditor }

// Priority is stored ordinally: 0=Low, 1=Medium, 2=High.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

func (p Priority) Valid() bool { return p >= PriorityLow && p <= PriorityHigh }

// EventType is the kind of a notification event.
type EventType string

const (
	EventMemberAdded EventType = "member_added"
	EventTaskCreated EventType = "task_created"
	EventTaskDeleted EventType = "task_deleted"
	EventTaskUpdated EventType = "task_updated"
)

// AuditAction values recorded in the activity trail.
const (
	AuditListCreated   = "list_created"
	AuditListUpdated   = "list_updated"
	AuditListDeleted   = "list_deleted"
	AuditMemberAdded   = "member_added"
	AuditMemberRemoved = "member_removed"
	AuditTaskCreated   = "task_created"
	AuditTaskUpdated   = "task_updated"
	AuditTaskDeleted   = "task_deleted"
)

// Partition identifies one of the two task columns of a list.
type Partition string

const (
	PartitionActive    Partition = "active"
	PartitionCompleted Partition = "completed"
)

func (p Partition) Valid() bool { return p == PartitionActive || p == PartitionCompleted }

// Completed maps a partition onto the tasks.completed flag.
func (p Partition) Completed() bool { return p == PartitionCompleted }

// Change-feed table names.
const (
	TableTasks   = "tasks"
	TableLists   = "task_lists"
	TableMembers = "list_members"
)
