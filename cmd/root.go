package cmd

import (
	"os"

	"github.com/bmeg/dbpedia-loader/cmd/fetch"
	"github.com/bmeg/dbpedia-loader/cmd/load"
	"github.com/bmeg/dbpedia-loader/cmd/parse"
	"github.com/bmeg/dbpedia-loader/cmd/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "dbpedia-loader",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(load.Cmd)
	RootCmd.AddCommand(parse.Cmd)
	RootCmd.AddCommand(fetch.Cmd)
	RootCmd.AddCommand(version.Cmd)
	RootCmd.AddCommand(genBashCompletionCmd)
}

var genBashCompletionCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completions file",
	Run: func(cmd *cobra.Command, args []string) {
		RootCmd.GenBashCompletion(os.Stdout)
	},
}
