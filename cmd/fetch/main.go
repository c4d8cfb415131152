package fetch

import (
	"context"
	"os"
	"os/signal"

	"github.com/bmeg/dbpedia-loader/config"
	"github.com/bmeg/dbpedia-loader/fetch"
	"github.com/bmeg/dbpedia-loader/log"
	"github.com/spf13/cobra"
)

var configFile string
var url = fetch.DefaultURL
var path = fetch.DefaultPath

// Cmd is the command line for the fetch command
var Cmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the triple dump if it is not present",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.DefaultConfig()
		if configFile != "" {
			if err := config.ParseConfigFile(configFile, conf); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("url") || configFile == "" {
			conf.Source.URL = url
		}
		if cmd.Flags().Changed("path") || configFile == "" {
			conf.Source.Path = path
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		f := &fetch.Fetcher{S3: conf.S3}
		got, err := f.Ensure(ctx, conf.Source.URL, conf.Source.Path)
		if err != nil {
			return err
		}
		if got {
			log.Infof("Downloaded %s to %s", conf.Source.URL, conf.Source.Path)
		} else {
			log.Infof("%s already present", conf.Source.Path)
		}
		return nil
	},
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Config file")
	flags.StringVar(&url, "url", url, "URL of the triple dump (http, https or s3)")
	flags.StringVar(&path, "path", path, "Local path of the triple dump")
}
