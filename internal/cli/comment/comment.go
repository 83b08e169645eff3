package comment

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"threadlet/internal/cli/paramutils"
	"threadlet/internal/cli/utils"
	"threadlet/internal/config"
	"threadlet/internal/errcodes"
	"threadlet/internal/session"
)

func runCmd(cmd *cobra.Command, args []string) error {
	params := &commentCmdParams{}
	err := fillCommentCmdParams(cmd, params)
	if err != nil {
		return err
	}

	cfg, err := config.New(&params.Overrides)
	if err != nil {
		return err
	}

	s, err := session.New(&session.Options{Config: cfg})
	if err != nil {
		return err
	}

	ctx := context.Background()
	snap := session.SnapshotFromURL(cfg.PageURL)
	snap.MetaDescription = params.Description
	s.Init(ctx, snap)

	if s.User() == nil {
		return errcodes.ErrNoToken
	}

	if s.State() == session.StateNoThread {
		return errcodes.ErrNotFound
	}

	body := params.Message
	if body == "" {
		body, err = utils.PromptCommentBody()
		if err != nil {
			return err
		}
	}

	c, err := s.CreateComment(ctx, body)
	if err != nil {
		return err
	}

	fmt.Printf("Commented as %s, %d comments in total\n", c.Author.Login, s.Count())

	return nil
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Post a comment",
		Long:  `Posts a comment to the page's backing issue as the logged in user`,
		Run:   utils.RunCommandWrapper(runCmd),
	}

	cmd.Flags().StringP("message", "m", "", "comment body, prompts when omitted")
	paramutils.AddThreadFlags(cmd.Flags())

	return cmd
}
