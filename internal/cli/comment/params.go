package comment

import (
	"github.com/spf13/cobra"

	"threadlet/internal/cli/paramutils"
	"threadlet/internal/config"
)

type commentCmdParams struct {
	Overrides   config.Session
	Message     string
	Description string
}

func fillCommentCmdParams(cmd *cobra.Command, params *commentCmdParams) error {
	flags := paramutils.NewFlagRepo(cmd.Flags())

	params.Message = flags.GetStringOrDefault("message", "")
	params.Description = flags.GetStringOrDefault("description", "")

	return paramutils.FillSessionParams(flags, &params.Overrides)
}
