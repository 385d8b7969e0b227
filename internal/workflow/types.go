package workflow

import "time"

// Milestone is a stage in the loan lifecycle, from marketing funnel
// through funding.
type Milestone string

const (
	// Funnel stages.
	MilestoneLeads          Milestone = "LEADS"
	MilestoneLeadsVerified  Milestone = "LEADS_VERIFIED"
	MilestoneContacted      Milestone = "CONTACTED"
	MilestoneReachedLanding Milestone = "REACHED_LANDING"
	MilestoneVerifiedInfo   Milestone = "VERIFIED_INFO"

	// Pipeline stages.
	MilestoneStarted               Milestone = "STARTED"
	MilestoneApplication           Milestone = "APPLICATION"
	MilestonePreApproved           Milestone = "PRE_APPROVED"
	MilestoneProcessing            Milestone = "PROCESSING"
	MilestoneSubmitted             Milestone = "SUBMITTED"
	MilestoneConditionallyApproved Milestone = "CONDITIONALLY_APPROVED"
	MilestoneApproved              Milestone = "APPROVED"
	MilestoneDocsOut               Milestone = "DOCS_OUT"
	MilestoneDocsBack              Milestone = "DOCS_BACK"
	MilestoneClearToClose          Milestone = "CLEAR_TO_CLOSE"
	MilestoneClosing               Milestone = "CLOSING"
	MilestoneFunded                Milestone = "FUNDED"
	MilestoneCompletion            Milestone = "COMPLETION"

	// Terminal states.
	MilestoneDenied    Milestone = "DENIED"
	MilestoneWithdrawn Milestone = "WITHDRAWN"
)

// TaskStatus is the lifecycle state of a workflow task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskBlocked    TaskStatus = "BLOCKED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// TaskPriority orders task urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// SLAStatus reports how a stage is tracking against its service-level
// window.
type SLAStatus string

const (
	SLAOnTrack  SLAStatus = "ON_TRACK"
	SLAAtRisk   SLAStatus = "AT_RISK"
	SLABreached SLAStatus = "BREACHED"
)

// Task is one unit of work generated when an application enters a
// milestone.
type Task struct {
	ID             string       `yaml:"id" json:"id"`
	ApplicationID  string       `yaml:"application_id" json:"application_id"`
	Title          string       `yaml:"title" json:"title"`
	Description    string       `yaml:"description" json:"description"`
	Status         TaskStatus   `yaml:"status" json:"status"`
	Priority       TaskPriority `yaml:"priority" json:"priority"`
	AssignedRole   string       `yaml:"assigned_role" json:"assigned_role"`
	AssignedUserID string       `yaml:"assigned_user_id,omitempty" json:"assigned_user_id,omitempty"`
	SLAHours       int          `yaml:"sla_hours" json:"sla_hours"`
	DueAt          time.Time    `yaml:"due_at" json:"due_at"`
	CompletedAt    *time.Time   `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt      time.Time    `yaml:"created_at" json:"created_at"`
}

// Transition records one milestone change. From is empty when the record
// is the application's registration.
type Transition struct {
	ID             string    `yaml:"id" json:"id"`
	ApplicationID  string    `yaml:"application_id" json:"application_id"`
	From           Milestone `yaml:"from,omitempty" json:"from,omitempty"`
	To             Milestone `yaml:"to" json:"to"`
	TransitionedAt time.Time `yaml:"transitioned_at" json:"transitioned_at"`
	TransitionedBy string    `yaml:"transitioned_by" json:"transitioned_by"`
	Reason         string    `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// State is a point-in-time view of an application's workflow position.
type State struct {
	ApplicationID    string      `yaml:"application_id" json:"application_id"`
	CurrentMilestone Milestone   `yaml:"current_milestone" json:"current_milestone"`
	EnteredAt        time.Time   `yaml:"entered_milestone_at" json:"entered_milestone_at"`
	DaysInMilestone  float64     `yaml:"days_in_milestone" json:"days_in_milestone"`
	PendingTasks     []Task      `yaml:"pending_tasks,omitempty" json:"pending_tasks,omitempty"`
	CompletedTasks   []Task      `yaml:"completed_tasks,omitempty" json:"completed_tasks,omitempty"`
	SLAStatus        SLAStatus   `yaml:"sla_status" json:"sla_status"`
	NextMilestones   []Milestone `yaml:"next_milestones,omitempty" json:"next_milestones,omitempty"`
	Blockers         []string    `yaml:"blockers,omitempty" json:"blockers,omitempty"`
}
