package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	commentcmd "threadlet/internal/cli/comment"
	initcmd "threadlet/internal/cli/initialize"
	logincmd "threadlet/internal/cli/login"
	viewcmd "threadlet/internal/cli/view"
	"threadlet/internal/configutils"
	"threadlet/internal/systemcodes"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "threadlet",
	Short:   "threadlet command-line client for issue-backed comment threads",
	Long:    `Command-line client for comment threads stored as GitHub issues.`,
	Version: fmt.Sprintf("%v, commit %v, built at %v", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			fmt.Println(err)
			os.Exit(systemcodes.ErrorCodeConfigError)
		}

		err = configutils.Load(path)
		if err != nil {
			fmt.Println(err)
			os.Exit(systemcodes.ErrorCodeConfigError)
		}
	},
}

func Execute() {
	rootCmd.AddCommand(
		viewcmd.New(),
		commentcmd.New(),
		logincmd.New(),
		logincmd.NewLogout(),
		initcmd.New(),
	)

	rootCmd.PersistentFlags().String("config", "", "config path")

	rootCmd.Execute()
}
