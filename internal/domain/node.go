package domain

import "github.com/google/uuid"

type NodeActionKind string

const (
	// ActionBuild starts assembling a buildable entity.
	ActionBuild NodeActionKind = "build"
	// ActionUploadPhoto expects photos for the entity being built.
	ActionUploadPhoto NodeActionKind = "uploadPhoto"
)

type NodeAction struct {
	Kind      NodeActionKind `json:"kind" validate:"required,oneof=build uploadPhoto"`
	Buildable *BuildableType `json:"buildable,omitempty"`
}

// NodeDraft describes a conversation screen: the messages sent when the user
// enters it and the entry point it serves.
type NodeDraft struct {
	Systemic   bool
	Name       string   `validate:"required"`
	Messages   []string `validate:"min=1"`
	EntryPoint *EntryPoint
	Action     *NodeAction
}

type Node struct {
	ID         uuid.UUID
	Systemic   bool
	Name       string
	Messages   []string
	EntryPoint *EntryPoint
	Action     *NodeAction
}

func (n Node) Draft() NodeDraft {
	return NodeDraft{
		Systemic:   n.Systemic,
		Name:       n.Name,
		Messages:   append([]string(nil), n.Messages...),
		EntryPoint: n.EntryPoint,
		Action:     n.Action,
	}
}
