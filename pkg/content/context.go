package content

// Context identifies the UI placement a renderer is being mounted into. A
// descriptor may omit variants for contexts it does not support; resolution
// for such a context yields UnsupportedContext rather than an error.
type Context string

const (
	// ContextWorkspace mounts a renderer as the full workspace view.
	ContextWorkspace Context = "workspace"

	// ContextBoard mounts a renderer as a card on a board.
	ContextBoard Context = "board"

	// ContextList mounts a renderer as a row in a list.
	ContextList Context = "list"

	// ContextBadge mounts a renderer as a compact badge (title bars,
	// presence indicators).
	ContextBadge Context = "badge"
)

// ValidContexts returns all recognized mount contexts.
func ValidContexts() []Context {
	return []Context{
		ContextWorkspace,
		ContextBoard,
		ContextList,
		ContextBadge,
	}
}

// IsValid returns true if this is a recognized mount context.
func (c Context) IsValid() bool {
	switch c {
	case ContextWorkspace, ContextBoard, ContextList, ContextBadge:
		return true
	default:
		return false
	}
}

// String returns the string representation of the context.
func (c Context) String() string {
	return string(c)
}
