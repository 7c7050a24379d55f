package domain

import (
	"errors"
	"strings"
	"time"
)

type Project struct {
	ID        int64
	ClientID  int64
	Name      string
	CreatedAt time.Time
}

// NewProject creates a new project owned by a client
func NewProject(clientID int64, name string) *Project {
	return &Project{
		ClientID:  clientID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
}

// Validate returns an error if the project is invalid
func (p *Project) Validate() error {
	if p.ClientID <= 0 {
		return errors.New("client ID is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("project name is required")
	}
	return nil
}
