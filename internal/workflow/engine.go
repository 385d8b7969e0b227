// Package workflow tracks loan lifecycle milestones, their service-level
// windows, and the tasks each stage generates.
//
// The transition graph, SLA hours, and task templates are static tables;
// the engine holds per-application transition history and tasks in memory
// behind a mutex. Wall-clock and ID generation are injected so state math
// is testable.
package workflow

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finbrook/dscrgo/internal/logging"
)

const defaultSLAHours = 48

// milestoneSLA holds the service-level window per stage, in hours. Stages
// absent from the table use defaultSLAHours.
var milestoneSLA = map[Milestone]int{
	MilestoneStarted:               24,
	MilestoneApplication:           48,
	MilestonePreApproved:           24,
	MilestoneProcessing:            72,
	MilestoneSubmitted:             48,
	MilestoneConditionallyApproved: 24,
	MilestoneApproved:              24,
	MilestoneDocsOut:               48,
	MilestoneDocsBack:              24,
	MilestoneClearToClose:          24,
	MilestoneClosing:               48,
}

// validTransitions is the milestone graph. A stage with no entry is
// terminal.
var validTransitions = map[Milestone][]Milestone{
	MilestoneLeads:                 {MilestoneLeadsVerified, MilestoneWithdrawn},
	MilestoneLeadsVerified:         {MilestoneContacted, MilestoneWithdrawn},
	MilestoneContacted:             {MilestoneReachedLanding, MilestoneWithdrawn},
	MilestoneReachedLanding:        {MilestoneVerifiedInfo, MilestoneWithdrawn},
	MilestoneVerifiedInfo:          {MilestoneStarted, MilestoneFunded, MilestoneWithdrawn},
	MilestoneStarted:               {MilestoneApplication, MilestoneWithdrawn},
	MilestoneApplication:           {MilestonePreApproved, MilestoneDenied, MilestoneWithdrawn},
	MilestonePreApproved:           {MilestoneProcessing, MilestoneDenied, MilestoneWithdrawn},
	MilestoneProcessing:            {MilestoneSubmitted, MilestoneDenied, MilestoneWithdrawn},
	MilestoneSubmitted:             {MilestoneConditionallyApproved, MilestoneDenied, MilestoneWithdrawn},
	MilestoneConditionallyApproved: {MilestoneApproved, MilestoneDenied, MilestoneWithdrawn},
	MilestoneApproved:              {MilestoneDocsOut, MilestoneWithdrawn},
	MilestoneDocsOut:               {MilestoneDocsBack, MilestoneWithdrawn},
	MilestoneDocsBack:              {MilestoneClearToClose, MilestoneWithdrawn},
	MilestoneClearToClose:          {MilestoneClosing, MilestoneWithdrawn},
	MilestoneClosing:               {MilestoneFunded, MilestoneWithdrawn},
	MilestoneFunded:                {MilestoneCompletion},
}

type taskTemplate struct {
	title    string
	role     string
	slaHours int
}

var milestoneTasks = map[Milestone][]taskTemplate{
	MilestoneStarted: {
		{"Verify borrower identity", "PROCESSOR", 24},
		{"Order credit report", "PROCESSOR", 4},
		{"Collect income documentation", "PROCESSOR", 48},
	},
	MilestoneApplication: {
		{"Review application completeness", "PROCESSOR", 24},
		{"Order AVM", "PROCESSOR", 4},
		{"Calculate DSCR", "PROCESSOR", 8},
	},
	MilestonePreApproved: {
		{"Order appraisal", "PROCESSOR", 24},
		{"Order title", "PROCESSOR", 24},
		{"Send pre-approval letter", "LOAN_OFFICER", 4},
	},
	MilestoneProcessing: {
		{"Review appraisal", "UNDERWRITER", 24},
		{"Verify rent schedule", "PROCESSOR", 24},
		{"Clear conditions", "PROCESSOR", 72},
	},
	MilestoneConditionallyApproved: {
		{"Review conditions", "UNDERWRITER", 24},
		{"Verify condition clearance", "UNDERWRITER", 24},
	},
	MilestoneApproved: {
		{"Prepare closing disclosure", "CLOSER", 24},
		{"Schedule closing", "CLOSER", 48},
	},
	MilestoneDocsOut: {
		{"Send documents for signing", "CLOSER", 24},
		{"Confirm signing appointment", "CLOSER", 24},
	},
	MilestoneClearToClose: {
		{"Final review", "CLOSER", 8},
		{"Wire funds", "CLOSER", 24},
	},
}

// TransitionError reports a milestone change the graph does not allow.
type TransitionError struct {
	From Milestone
	To   Milestone
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// ErrTaskNotFound is returned by CompleteTask for an unknown task ID.
var ErrTaskNotFound = fmt.Errorf("task not found")

// Config carries the engine's injectable collaborators.
type Config struct {
	// Clock supplies the current time; defaults to UTC wall clock.
	Clock func() time.Time
	// NewID supplies identifiers for transitions and tasks; defaults to
	// random UUIDs.
	NewID func() string
}

// Engine manages milestone transitions and stage tasks for applications.
// Safe for concurrent use.
type Engine struct {
	mu          sync.Mutex
	clock       func() time.Time
	newID       func() string
	transitions map[string][]Transition
	tasks       map[string][]Task
	logger      logging.Logger
}

// New creates a workflow engine with default clock and ID generation.
func New() *Engine {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a workflow engine with the given collaborators.
func NewWithConfig(cfg Config) *Engine {
	clock := cfg.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Engine{
		clock:       clock,
		newID:       newID,
		transitions: make(map[string][]Transition),
		tasks:       make(map[string][]Task),
		logger:      logging.NopLogger{},
	}
}

// SetLogger sets the logger used for transition events.
func (e *Engine) SetLogger(l logging.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Register places an application at its initial milestone without
// transition validation and generates that stage's tasks.
func (e *Engine) Register(applicationID string, initial Milestone, by string) Transition {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := Transition{
		ID:             e.newID(),
		ApplicationID:  applicationID,
		To:             initial,
		TransitionedAt: e.clock(),
		TransitionedBy: by,
	}
	e.transitions[applicationID] = append(e.transitions[applicationID], t)
	e.generateTasks(applicationID, initial)

	e.logger.Infof("registered application %s at %s", applicationID, initial)
	return t
}

// Transition validates the milestone change against the transition graph,
// records it, and generates the target stage's tasks.
func (e *Engine) Transition(applicationID string, from, to Milestone, by, reason string) (Transition, error) {
	if !transitionAllowed(from, to) {
		return Transition{}, &TransitionError{From: from, To: to}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t := Transition{
		ID:             e.newID(),
		ApplicationID:  applicationID,
		From:           from,
		To:             to,
		TransitionedAt: e.clock(),
		TransitionedBy: by,
		Reason:         reason,
	}
	e.transitions[applicationID] = append(e.transitions[applicationID], t)
	e.generateTasks(applicationID, to)

	e.logger.Infof("application %s moved %s -> %s by %s", applicationID, from, to, by)
	return t, nil
}

// State computes the current workflow view for an application at the given
// milestone.
func (e *Engine) State(applicationID string, current Milestone) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()

	enteredAt := now
	history := e.transitions[applicationID]
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].To == current {
			enteredAt = history[i].TransitionedAt
			break
		}
	}

	daysIn := now.Sub(enteredAt).Seconds() / 86400

	slaHours, ok := milestoneSLA[current]
	if !ok {
		slaHours = defaultSLAHours
	}
	var slaStatus SLAStatus
	switch hoursIn := daysIn * 24; {
	case hoursIn > float64(slaHours):
		slaStatus = SLABreached
	case hoursIn > float64(slaHours)*0.75:
		slaStatus = SLAAtRisk
	default:
		slaStatus = SLAOnTrack
	}

	var pending, completed []Task
	for _, t := range e.tasks[applicationID] {
		switch t.Status {
		case TaskPending, TaskInProgress:
			pending = append(pending, t)
		case TaskCompleted:
			completed = append(completed, t)
		}
	}

	var blockers []string
	if len(pending) > 0 {
		blockers = append(blockers, fmt.Sprintf("%d pending tasks", len(pending)))
	}

	return State{
		ApplicationID:    applicationID,
		CurrentMilestone: current,
		EnteredAt:        enteredAt,
		DaysInMilestone:  math.Round(daysIn*100) / 100,
		PendingTasks:     pending,
		CompletedTasks:   completed,
		SLAStatus:        slaStatus,
		NextMilestones:   validTransitions[current],
		Blockers:         blockers,
	}
}

// CompleteTask marks a task completed and returns it.
func (e *Engine) CompleteTask(applicationID, taskID string) (Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tasks := e.tasks[applicationID]
	for i := range tasks {
		if tasks[i].ID == taskID {
			now := e.clock()
			tasks[i].Status = TaskCompleted
			tasks[i].CompletedAt = &now
			return tasks[i], nil
		}
	}
	return Task{}, ErrTaskNotFound
}

// Tasks returns all tasks recorded for an application.
func (e *Engine) Tasks(applicationID string) []Task {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Task, len(e.tasks[applicationID]))
	copy(out, e.tasks[applicationID])
	return out
}

// History returns the application's transition records in order.
func (e *Engine) History(applicationID string) []Transition {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Transition, len(e.transitions[applicationID]))
	copy(out, e.transitions[applicationID])
	return out
}

func (e *Engine) generateTasks(applicationID string, m Milestone) {
	now := e.clock()
	for _, tpl := range milestoneTasks[m] {
		e.tasks[applicationID] = append(e.tasks[applicationID], Task{
			ID:            e.newID(),
			ApplicationID: applicationID,
			Title:         tpl.title,
			Description:   fmt.Sprintf("Task for %s milestone", m),
			Status:        TaskPending,
			Priority:      PriorityMedium,
			AssignedRole:  tpl.role,
			SLAHours:      tpl.slaHours,
			DueAt:         now.Add(time.Duration(tpl.slaHours) * time.Hour),
			CreatedAt:     now,
		})
	}
}

func transitionAllowed(from, to Milestone) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
