package login

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"threadlet/internal/auth"
	"threadlet/internal/cli/paramutils"
	"threadlet/internal/cli/utils"
	"threadlet/internal/config"
	"threadlet/internal/pkg/storage"
	"threadlet/internal/session"
)

func newController(cmd *cobra.Command) (*auth.Controller, *config.Session, error) {
	overrides := &config.Session{}
	err := paramutils.FillSessionParams(paramutils.NewFlagRepo(cmd.Flags()), overrides)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.New(overrides)
	if err != nil {
		return nil, nil, err
	}

	tokens := auth.NewTokenStore(storage.NewFileStore())

	return auth.NewController(cfg, tokens), cfg, nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	ctl, cfg, err := newController(cmd)
	if err != nil {
		return err
	}

	code := paramutils.ParseIDArg(args)
	if code == "" {
		fmt.Println("Open this URL in a browser and authorize the application:")
		fmt.Println()
		fmt.Println("  " + ctl.LoginURL(cfg.PageURL))
		fmt.Println()

		input, err := utils.PromptInput("Paste the redirect URL (or just the code)")
		if err != nil {
			return err
		}

		code = strings.TrimSpace(input)
	}

	if snap := session.SnapshotFromURL(code); snap.Code != "" {
		code = snap.Code
	}

	err = ctl.CompleteCodeExchange(context.Background(), code)
	if err != nil {
		return err
	}

	user := ctl.CurrentUser(context.Background())
	if user != nil {
		fmt.Printf("Logged in as %s\n", user.Login)
	} else {
		fmt.Println("Logged in")
	}

	return nil
}

func runLogoutCmd(cmd *cobra.Command, args []string) error {
	ctl, _, err := newController(cmd)
	if err != nil {
		return err
	}

	ctl.Logout()
	fmt.Println("Logged out")

	return nil
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with GitHub",
		Long:  `Runs the GitHub authorization code flow and stores the resulting token`,
		Run:   utils.RunCommandWrapper(runCmd),
	}

	paramutils.AddThreadFlags(cmd.Flags())

	return cmd
}

func NewLogout() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored GitHub token",
		Run:   utils.RunCommandWrapper(runLogoutCmd),
	}

	paramutils.AddThreadFlags(cmd.Flags())

	return cmd
}
