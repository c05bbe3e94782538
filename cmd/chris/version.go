package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{
				Version: version,
				Commit:  commit,
				Date:    date,
				Go:      runtime.Version(),
			}
			out := cmd.OutOrStdout()
			switch c.outputFormat() {
			case "json":
				data, err := getOutputJSON(info)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case "", "text":
				fmt.Fprintf(out, "chris %s (commit %s, built %s, %s)\n",
					info.Version, info.Commit, info.Date, info.Go)
			default:
				return fmt.Errorf("unknown output format: %s", c.outputFormat())
			}
			return nil
		},
	}
}
