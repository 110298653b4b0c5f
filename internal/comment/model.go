package comment

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a row in the comments table. ParentID, when set, points
// at another comment on the same task, forming a thread of arbitrary depth.
type Comment struct {
	ID        uuid.UUID
	TaskID    uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	ParentID  *uuid.UUID
	CreatedAt time.Time
}

// Node is a comment with its direct replies, forming the thread tree returned
// to clients.
type Node struct {
	Comment
	Replies []*Node
}

// BuildThread arranges a flat, chronologically ordered comment list into its
// reply tree using a child index keyed by parent ID. Comments whose parent is
// missing from the slice surface as roots rather than disappearing.
func BuildThread(comments []Comment) []*Node {
	nodes := make(map[uuid.UUID]*Node, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &Node{Comment: comments[i]}
	}

	var roots []*Node
	for i := range comments {
		n := nodes[comments[i].ID]
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*n.ParentID]
		if !ok {
			roots = append(roots, n)
			continue
		}
		parent.Replies = append(parent.Replies, n)
	}

	return roots
}
