package initialize

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"threadlet/internal/cli/paramutils"
	"threadlet/internal/cli/utils"
	"threadlet/internal/config"
	"threadlet/internal/errcodes"
	"threadlet/internal/session"
)

func runCmd(cmd *cobra.Command, args []string) error {
	overrides := &config.Session{}
	err := paramutils.FillSessionParams(paramutils.NewFlagRepo(cmd.Flags()), overrides)
	if err != nil {
		return err
	}

	// Creation is always explicit here.
	overrides.CreateIssueManually = true

	cfg, err := config.New(overrides)
	if err != nil {
		return err
	}

	s, err := session.New(&session.Options{Config: cfg})
	if err != nil {
		return err
	}

	flags := paramutils.NewFlagRepo(cmd.Flags())

	ctx := context.Background()
	snap := session.SnapshotFromURL(cfg.PageURL)
	snap.MetaDescription = flags.GetStringOrDefault("description", "")
	s.Init(ctx, snap)

	if s.User() == nil {
		return errcodes.ErrNoToken
	}

	if issue := s.Issue(); issue != nil {
		fmt.Printf("Thread already exists: %s\n", issue.HTMLURL)
		return nil
	}

	if !utils.PromptConfirm(fmt.Sprintf("Create the backing issue for %q?", cfg.PageID)) {
		return nil
	}

	err = s.CreateIssue(ctx)
	if err != nil {
		return err
	}

	issue := s.Issue()
	if issue == nil {
		return errors.New("issue creation did not produce an issue")
	}

	fmt.Printf("Created %s\n", issue.HTMLURL)

	return nil
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the backing issue for a page",
		Long:  `Creates the labelled issue a page's comment thread lives on, admins only`,
		Run:   utils.RunCommandWrapper(runCmd),
	}

	paramutils.AddThreadFlags(cmd.Flags())

	return cmd
}
