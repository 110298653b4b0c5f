package mention_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/portalhq/portal/internal/mention"
)

func TestParse_SingleMention(t *testing.T) {
	names := mention.Parse("hey @alice, can you look at this?")
	assert.Equal(t, []string{"alice"}, names)
}

func TestParse_MultipleMentions(t *testing.T) {
	names := mention.Parse("@alice @bob please review")
	assert.Equal(t, []string{"alice", "bob"}, names)
}

func TestParse_DuplicatesCollapsed(t *testing.T) {
	names := mention.Parse("@alice and again @alice, plus @bob")
	assert.Equal(t, []string{"alice", "bob"}, names, "each username should appear once, in order of first appearance")
}

func TestParse_NoMentions(t *testing.T) {
	assert.Nil(t, mention.Parse("nothing to see here"))
}

func TestParse_EmptyText(t *testing.T) {
	assert.Nil(t, mention.Parse(""))
}

func TestParse_PunctuationTerminatesUsername(t *testing.T) {
	names := mention.Parse("thanks @bob! and @carol.")
	assert.Equal(t, []string{"bob", "carol"}, names)
}

func TestParse_UnderscoresAndDigits(t *testing.T) {
	names := mention.Parse("ping @dev_ops and @user42")
	assert.Equal(t, []string{"dev_ops", "user42"}, names)
}

func TestParse_BareAtSign(t *testing.T) {
	assert.Nil(t, mention.Parse("meet @ noon"))
}

func TestParse_CaseIsPreserved(t *testing.T) {
	names := mention.Parse("cc @Alice")
	assert.Equal(t, []string{"Alice"}, names, "matching against users is case-sensitive, so case must survive parsing")
}
