package view

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gosuri/uilive"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"threadlet/internal/cli/paramutils"
	"threadlet/internal/cli/utils"
	"threadlet/internal/config"
	"threadlet/internal/domain/thread"
	"threadlet/internal/session"
)

func runCmd(cmd *cobra.Command, args []string) error {
	params := &viewCmdParams{}
	err := fillViewCmdParams(cmd, params)
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

	if errored, msg := s.Erroring(); errored {
		// The session records messages already formatted for display.
		return errors.New(strings.TrimPrefix(msg, "Error: "))
	}

	if s.State() == session.StateNoThread {
		fmt.Println("No comment thread exists for this page yet.")
		return nil
	}

	return execute(ctx, s)
}

func execute(ctx context.Context, s *session.Session) error {
	reader := bufio.NewReader(os.Stdin)

	writer := uilive.New()
	defer writer.Stop()
	writer.Start()

	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true
	table.AddRow("AUTHOR", "DATE", "LIKES", "COMMENT")
	table.AddRow("------", "----", "-----", "-------")

	rendered := 0
	for {
		comments := s.Comments()
		for _, c := range comments[rendered:] {
			table.AddRow(
				c.Author.Login,
				c.CreatedAt.Format("2006-01-02 15:04"),
				likesColumn(&c.Reactions),
				strings.TrimSpace(c.Body),
			)
		}
		rendered = len(comments)

		fmt.Fprintln(writer, table.String())

		if s.Exhausted() {
			fmt.Fprintln(writer.Newline(), fmt.Sprintf("%d comments", s.Count()))
			break
		}

		moreMsg := "Press Enter to show more..."
		fmt.Fprintln(writer.Newline(), moreMsg)

		_, _, err := reader.ReadRune()
		if err != nil {
			fmt.Println(err)
			break
		}

		// Clear the additional line from loading more request (Enter)
		clearLine(writer.Out)

		loadingMsg := "Loading..."
		fmt.Fprintln(writer, table.String())
		fmt.Fprintln(writer.Newline(), loadingMsg)

		err = s.LoadMore(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

func likesColumn(r *thread.Reactions) string {
	if r.TotalCount == 0 {
		return ""
	}

	return fmt.Sprintf("♥ %d", r.TotalCount)
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view",
		Aliases: []string{"show"},
		Short:   "View a comment thread",
		Long:    `Shows the comments attached to a page's backing issue, a page at a time`,
		Run:     utils.RunCommandWrapper(runCmd),
	}

	paramutils.AddThreadFlags(cmd.Flags())

	return cmd
}

func clearLine(out io.Writer) {
	var clear = fmt.Sprintf("%c[%dA%c[2K", 27, 1, 27)
	_, _ = fmt.Fprint(out, clear)
}
