package comment_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalhq/portal/internal/comment"
)

func TestBuildThread_FlatList(t *testing.T) {
	c1 := comment.Comment{ID: uuid.New(), Content: "first"}
	c2 := comment.Comment{ID: uuid.New(), Content: "second"}

	roots := comment.BuildThread([]comment.Comment{c1, c2})

	require.Len(t, roots, 2)
	assert.Equal(t, "first", roots[0].Content)
	assert.Equal(t, "second", roots[1].Content)
	assert.Empty(t, roots[0].Replies)
}

func TestBuildThread_NestedReplies(t *testing.T) {
	root := comment.Comment{ID: uuid.New(), Content: "root"}
	reply := comment.Comment{ID: uuid.New(), Content: "reply", ParentID: &root.ID}
	deep := comment.Comment{ID: uuid.New(), Content: "deep", ParentID: &reply.ID}

	roots := comment.BuildThread([]comment.Comment{root, reply, deep})

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 1)
	assert.Equal(t, "reply", roots[0].Replies[0].Content)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, "deep", roots[0].Replies[0].Replies[0].Content)
}

func TestBuildThread_SiblingRepliesKeepOrder(t *testing.T) {
	root := comment.Comment{ID: uuid.New(), Content: "root"}
	r1 := comment.Comment{ID: uuid.New(), Content: "older", ParentID: &root.ID}
	r2 := comment.Comment{ID: uuid.New(), Content: "newer", ParentID: &root.ID}

	roots := comment.BuildThread([]comment.Comment{root, r1, r2})

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, "older", roots[0].Replies[0].Content)
	assert.Equal(t, "newer", roots[0].Replies[1].Content)
}

func TestBuildThread_MissingParentBecomesRoot(t *testing.T) {
	gone := uuid.New()
	orphan := comment.Comment{ID: uuid.New(), Content: "orphan", ParentID: &gone}

	roots := comment.BuildThread([]comment.Comment{orphan})

	require.Len(t, roots, 1, "a comment whose parent is absent must still surface")
	assert.Equal(t, "orphan", roots[0].Content)
}

func TestBuildThread_Empty(t *testing.T) {
	assert.Empty(t, comment.BuildThread(nil))
}
