package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/config"
)

// NewLinkCmd creates the link command, which prints the details link of a flow node.
func NewLinkCmd() *cobra.Command {
	var absolute bool

	cmd := &cobra.Command{
		Use:   "link <flowNodeId>",
		Short: "Print the task details link of a flow node",
		Example: `  flowadmin link 60002
  flowadmin link 60002 --absolute`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetGlobalConfig()
			id := strings.TrimSpace(args[0])
			if id == "" {
				return errors.New("flow node id cannot be empty")
			}

			link := bpm.DetailsURL(cfg.Server.AppPath, id)
			if absolute {
				origin, err := serverOrigin(cfg.Server.URL)
				if err != nil {
					return err
				}
				link = origin + link
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}

	cmd.Flags().BoolVar(&absolute, "absolute", false, "prefix the link with the engine scheme and host")
	return cmd
}

// serverOrigin returns "scheme://host[:port]" of the engine URL.
func serverOrigin(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid server url %q", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}
