package view

import (
	"github.com/spf13/cobra"

	"threadlet/internal/cli/paramutils"
	"threadlet/internal/config"
)

type viewCmdParams struct {
	Overrides   config.Session
	Description string
}

func fillViewCmdParams(cmd *cobra.Command, params *viewCmdParams) error {
	flags := paramutils.NewFlagRepo(cmd.Flags())

	params.Description = flags.GetStringOrDefault("description", "")

	return paramutils.FillSessionParams(flags, &params.Overrides)
}
