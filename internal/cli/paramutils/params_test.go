package paramutils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"threadlet/internal/config"
	"threadlet/internal/errcodes"
)

func TestFillSessionParams(t *testing.T) {
	t.Run("splits the repository flag into owner and repo", func(t *testing.T) {
		o := &config.Session{}
		err := FillSessionParams(&MockFlagSet{ValueMap: map[string]interface{}{
			"repository": "octocat/blog-comments",
		}}, o)

		assert.NoError(t, err)
		assert.Equal(t, "octocat", o.Owner)
		assert.Equal(t, "blog-comments", o.Repo)
	})

	t.Run("fails when the repository flag is malformed", func(t *testing.T) {
		o := &config.Session{}
		err := FillSessionParams(&MockFlagSet{ValueMap: map[string]interface{}{
			"repository": "not-a-repo",
		}}, o)

		assert.ErrorIs(t, err, errcodes.ErrRepositoryMustBeInFormOwnerRepo)
	})

	t.Run("leaves overrides untouched when flags are unset", func(t *testing.T) {
		o := &config.Session{PageID: "posts/hello", PerPage: 25}
		err := FillSessionParams(&MockFlagSet{ValueMap: map[string]interface{}{}}, o)

		assert.NoError(t, err)
		assert.Equal(t, "posts/hello", o.PageID)
		assert.Equal(t, 25, o.PerPage)
		assert.Empty(t, o.Owner)
	})

	t.Run("splits list flags on commas", func(t *testing.T) {
		o := &config.Session{}
		err := FillSessionParams(&MockFlagSet{ValueMap: map[string]interface{}{
			"labels": "blog,comments",
			"admins": "octocat,hubot",
		}}, o)

		assert.NoError(t, err)
		assert.Equal(t, []string{"blog", "comments"}, o.Labels)
		assert.Equal(t, []string{"octocat", "hubot"}, o.Admins)
	})

	t.Run("copies scalar flags into the overrides", func(t *testing.T) {
		o := &config.Session{}
		err := FillSessionParams(&MockFlagSet{ValueMap: map[string]interface{}{
			"issue":        42,
			"sort":         "first",
			"manual-issue": true,
		}}, o)

		assert.NoError(t, err)
		assert.Equal(t, 42, o.Number)
		assert.Equal(t, "first", o.SortDirection)
		assert.True(t, o.CreateIssueManually)
	})
}

func TestParseIDArg(t *testing.T) {
	t.Run("returns empty string when no args", func(t *testing.T) {
		assert.Equal(t, "", ParseIDArg([]string{}))
	})

	t.Run("returns the first arg", func(t *testing.T) {
		assert.Equal(t, "12", ParseIDArg([]string{"12", "extra"}))
	})
}
