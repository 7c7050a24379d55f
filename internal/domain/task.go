package domain

import (
	"errors"
	"strings"
	"time"
)

// Category classifies the kind of work a task represents
type Category string

const (
	CategoryIntegration Category = "integration"
	CategoryFeature     Category = "feature"
	CategoryUI          Category = "ui"
	CategoryFix         Category = "fix"
	CategoryRefactor    Category = "refactor"
	CategoryConfig      Category = "config"
)

// ParseCategory validates a category string
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryIntegration, CategoryFeature, CategoryUI, CategoryFix, CategoryRefactor, CategoryConfig:
		return c, nil
	}
	return "", errors.New("unknown category: " + s)
}

// Scope is a coarse size classification for a task
type Scope string

const (
	ScopeSmall  Scope = "small"
	ScopeMedium Scope = "medium"
	ScopeLarge  Scope = "large"
)

// ParseScope validates a scope string
func ParseScope(s string) (Scope, error) {
	sc := Scope(strings.ToLower(strings.TrimSpace(s)))
	switch sc {
	case ScopeSmall, ScopeMedium, ScopeLarge:
		return sc, nil
	}
	return "", errors.New("unknown scope: " + s)
}

// Task is a task definition: work is logged against it as time entries.
// Title is unique within the owning project. All classification fields
// are optional; a nil pointer means the field was never set.
type Task struct {
	ID               int64
	ProjectID        int64
	Title            string
	EstimatedMinutes *int64
	Epic             *string
	Category         *Category
	IsExploration    bool
	Scope            *Scope
	CreatedAt        time.Time
}

// NewTask creates a new task definition
func NewTask(projectID int64, title string) *Task {
	return &Task{
		ProjectID: projectID,
		Title:     strings.TrimSpace(title),
		CreatedAt: time.Now(),
	}
}

// Validate returns an error if the task is invalid
func (t *Task) Validate() error {
	if t.ProjectID <= 0 {
		return errors.New("project ID is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("task title is required")
	}
	if t.EstimatedMinutes != nil && *t.EstimatedMinutes <= 0 {
		return errors.New("estimate must be positive")
	}
	return nil
}

// HasEstimate reports whether an estimate has been set
func (t *Task) HasEstimate() bool {
	return t.EstimatedMinutes != nil
}
