package utils

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"threadlet/internal/errcodes"
	"threadlet/internal/systemcodes"
)

// PromptCommentBody opens a multiline editor prompt for the comment text.
func PromptCommentBody() (string, error) {
	body := ""
	prompt := &survey.Multiline{
		Message: "Comment",
	}
	err := survey.AskOne(prompt, &body)
	if err != nil {
		return "", err
	}

	return body, nil
}

// PromptConfirm asks a yes/no question, defaulting to no.
func PromptConfirm(message string) bool {
	ok := false
	prompt := &survey.Confirm{
		Message: message,
	}
	survey.AskOne(prompt, &ok)

	return ok
}

// PromptInput asks for a single line of input.
func PromptInput(message string) (string, error) {
	answer := ""
	prompt := &survey.Input{
		Message: message,
	}
	err := survey.AskOne(prompt, &answer)
	if err != nil {
		return "", err
	}

	return answer, nil
}

type runCommandError func(*cobra.Command, []string) error
type runCommandNoError func(*cobra.Command, []string)

func RunCommandWrapper(fn runCommandError) runCommandNoError {
	return func(cmd *cobra.Command, args []string) {
		err := fn(cmd, args)
		if err != nil {
			fmt.Println(errcodes.FormatError(err))

			switch {
			case errors.Is(err, errcodes.ErrNoToken):
				os.Exit(systemcodes.ErrorCodeNotAuthorized)
			case errors.Is(err, errcodes.ErrMissingClientID),
				errors.Is(err, errcodes.ErrMissingClientSecret),
				errors.Is(err, errcodes.ErrMissingOwner),
				errors.Is(err, errcodes.ErrMissingRepo),
				errors.Is(err, errcodes.ErrMissingPageID),
				errors.Is(err, errcodes.ErrRepositoryMustBeInFormOwnerRepo):
				os.Exit(systemcodes.ErrorCodeConfigError)
			default:
				os.Exit(systemcodes.ErrorCodeGeneric)
			}
		}
	}
}
