// Package domain contains core business entities and interfaces.
package domain

import (
	"strings"
	"time"
)

// Task represents a single work item in the graph.
// Dependencies form a DAG (edge direction: dependent -> dependency);
// ParentID forms a separate decomposition forest.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created       time.Time         `json:"created"`                 // Creation time
	Updated       time.Time         `json:"updated"`                 // Last mutation time
	ID            string            `json:"id"`                      // Opaque unique identifier, immutable
	Title         string            `json:"title"`                   // Title (required)
	Description   string            `json:"description,omitempty"`   // Description (optional)
	ParentID      string            `json:"parentID,omitempty"`      // Parent task ID (empty = root task)
	FailureReason string            `json:"failureReason,omitempty"` // Set only when status is failed
	Status        Status            `json:"status"`                  // Authored status (derived on read for containers)
	Kind          Kind              `json:"kind"`                    // Work-item category, carried for callers
	Decomposition DecompositionType `json:"decomposition,omitempty"` // Meaningful only on tasks with children
	Execution     ExecutionMode     `json:"execution,omitempty"`     // Whether the task is eligible for automation
	Dependencies  []string          `json:"dependencies,omitempty"`  // IDs that must close before this task can start
	Priority      int               `json:"priority"`                // 0 (highest) .. 4 (lowest)
}

// DependsOn returns true if the task has a direct dependency on the given id.
func (t *Task) DependsOn(id string) bool {
	for _, dep := range t.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

// IsRoot returns true if this task has no parent.
func (t *Task) IsRoot() bool {
	return t.ParentID == ""
}

// NormalizedTitle returns the title in the form used for duplicate detection:
// trimmed and lowercased.
func (t *Task) NormalizedTitle() string {
	return NormalizeTitle(t.Title)
}

// NormalizeTitle trims and lowercases a title for case-insensitive comparison.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// ClampPriority clamps a priority into the valid [0,4] range.
func ClampPriority(p int) int {
	if p < PriorityHighest {
		return PriorityHighest
	}
	if p > PriorityLowest {
		return PriorityLowest
	}
	return p
}

// Priority bounds. 0 is the most urgent, 4 the least.
const (
	PriorityHighest = 0
	PriorityLowest  = 4
	PriorityDefault = 2
)

// Kind categorizes a task. It affects no graph algorithm directly.
type Kind string

// Task kinds.
const (
	KindGoal        Kind = "goal"
	KindTask        Kind = "task"
	KindAssumption  Kind = "assumption"
	KindRisk        Kind = "risk"
	KindContingency Kind = "contingency"
	KindQuestion    Kind = "question"
	KindConstraint  Kind = "constraint"
	KindBug         Kind = "bug"
	KindFeature     Kind = "feature"
)

// AllKinds returns all valid kind values.
func AllKinds() []Kind {
	return []Kind{
		KindGoal,
		KindTask,
		KindAssumption,
		KindRisk,
		KindContingency,
		KindQuestion,
		KindConstraint,
		KindBug,
		KindFeature,
	}
}

// IsValid returns true if the kind is a known value.
func (k Kind) IsValid() bool {
	for _, valid := range AllKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// DecompositionType describes how a container task's status follows from its
// children's statuses.
type DecompositionType string

// Decomposition types.
const (
	DecomposeAnd        DecompositionType = "and"         // All children must close
	DecomposeOrFallback DecompositionType = "or_fallback" // Any child closing suffices; children tried in order
	DecomposeOrRace     DecompositionType = "or_race"     // Any child closing suffices; children raced
	DecomposeChoice     DecompositionType = "choice"      // Terminal children await an external selection
)

// IsValid returns true if the decomposition type is a known value.
func (d DecompositionType) IsValid() bool {
	switch d {
	case DecomposeAnd, DecomposeOrFallback, DecomposeOrRace, DecomposeChoice:
		return true
	default:
		return false
	}
}

// ExecutionMode distinguishes work that an automated executor may pick up
// from work that needs a human.
type ExecutionMode string

// Execution modes.
const (
	ExecutionAuto   ExecutionMode = "auto"
	ExecutionManual ExecutionMode = "manual"
)

// IsValid returns true if the execution mode is a known value.
func (e ExecutionMode) IsValid() bool {
	return e == ExecutionAuto || e == ExecutionManual
}
