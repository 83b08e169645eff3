package paramutils

import (
	"strings"

	"github.com/spf13/pflag"

	"threadlet/internal/config"
	"threadlet/internal/errcodes"
)

type FlagRepo interface {
	GetStringOrDefault(flag, d string) string
	GetBoolOrDefault(flag string, d bool) bool
	GetIntOrDefault(flag string, d int) int
}

func NewFlagRepo(flags *pflag.FlagSet) FlagRepo {
	return &PFlagSetWrapper{Flags: flags}
}

type PFlagSetWrapper struct {
	Flags *pflag.FlagSet
}

func (fs *PFlagSetWrapper) GetStringOrDefault(flag, d string) string {
	s, err := fs.Flags.GetString(flag)
	if err != nil || s == "" {
		return d
	}

	return s
}

func (fs *PFlagSetWrapper) GetBoolOrDefault(flag string, d bool) bool {
	s, err := fs.Flags.GetBool(flag)
	if err != nil {
		return d
	}

	return s
}

func (fs *PFlagSetWrapper) GetIntOrDefault(flag string, d int) int {
	s, err := fs.Flags.GetInt(flag)
	if err != nil || s == 0 {
		return d
	}

	return s
}

// AddThreadFlags registers the flags shared by every thread-facing command.
func AddThreadFlags(flags *pflag.FlagSet) {
	flags.StringP("repository", "r", "", "target repository in the form owner/repo")
	flags.String("page-id", "", "page identifier used to label the backing issue")
	flags.String("title", "", "page title used when creating the backing issue")
	flags.String("url", "", "page URL recorded in the backing issue body")
	flags.String("description", "", "page meta description appended to the issue body")
	flags.IntP("issue", "i", 0, "issue number to attach to directly")
	flags.String("labels", "", "comma separated issue labels")
	flags.String("admins", "", "comma separated admin logins")
	flags.Int("per-page", 0, "comments fetched per page")
	flags.String("sort", "", "comment order, 'first' or 'last'")
	flags.Bool("manual-issue", false, "never create the backing issue automatically")
}

// FillSessionParams copies the shared thread flags into config overrides.
// Flags the user did not set leave the override at its zero value so the
// configured or default value wins.
func FillSessionParams(flags FlagRepo, o *config.Session) error {
	repo := flags.GetStringOrDefault("repository", "")
	if repo != "" {
		v := strings.Split(repo, "/")
		if len(v) != 2 || v[0] == "" || v[1] == "" {
			return errcodes.ErrRepositoryMustBeInFormOwnerRepo
		}

		o.Owner = v[0]
		o.Repo = v[1]
	}

	o.PageID = flags.GetStringOrDefault("page-id", o.PageID)
	o.PageTitle = flags.GetStringOrDefault("title", o.PageTitle)
	o.PageURL = flags.GetStringOrDefault("url", o.PageURL)
	o.Number = flags.GetIntOrDefault("issue", o.Number)
	o.PerPage = flags.GetIntOrDefault("per-page", o.PerPage)
	o.SortDirection = flags.GetStringOrDefault("sort", o.SortDirection)

	if labels := flags.GetStringOrDefault("labels", ""); labels != "" {
		o.Labels = strings.Split(labels, ",")
	}
	if admins := flags.GetStringOrDefault("admins", ""); admins != "" {
		o.Admins = strings.Split(admins, ",")
	}

	o.CreateIssueManually = flags.GetBoolOrDefault("manual-issue", false)

	return nil
}

func ParseIDArg(args []string) string {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	return id
}
