package load

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/bmeg/dbpedia-loader/config"
	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/fetch"
	"github.com/bmeg/dbpedia-loader/loader"
	"github.com/bmeg/dbpedia-loader/log"
	"github.com/bmeg/dbpedia-loader/sink"
	"github.com/bmeg/dbpedia-loader/util"
	"github.com/bmeg/dbpedia-loader/version"
	"github.com/spf13/cobra"
)

var configFile string
var driver string
var server string
var login string
var key string
var noFetch bool

var conf = config.DefaultConfig()

// Cmd is the command line for the load command
var Cmd = &cobra.Command{
	Use:   "load",
	Short: "Load dbpedia short abstracts into a search index",
	Long: `Downloads the triple dump if it is missing, then streams it,
turning each abstract into a document and sending documents to the
configured driver in batches.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		log.ConfigureLogger(c.Logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return run(ctx, c)
	},
}

// resolveConfig layers the config file, then any flags set on the command
// line, over the defaults
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.DefaultConfig()
	if configFile != "" {
		if err := config.ParseConfigFile(configFile, c); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("url") {
		c.Source.URL = conf.Source.URL
	}
	if flags.Changed("path") {
		c.Source.Path = conf.Source.Path
	}
	if flags.Changed("index") {
		c.Index = conf.Index
	}
	if flags.Changed("language") {
		c.Language = conf.Language
	}
	if flags.Changed("buffer-size") {
		c.BufferSize = conf.BufferSize
	}
	if flags.Changed("limit") {
		c.Limit = conf.Limit
	}
	if driver != "" {
		if err := c.UseDriver(driver); err != nil {
			return nil, err
		}
	}
	c.SetDefaults()
	c.SetServer(server, login, key)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func run(ctx context.Context, c *config.Config) error {
	runID := util.UUID()
	logger := log.WithFields(log.Fields{"run": runID, "index": c.Index, "driver": c.Driver.Names()[0]})
	logger.WithFields(version.LogFields()).Info("starting load")

	if !noFetch {
		f := &fetch.Fetcher{S3: c.S3}
		if _, err := f.Ensure(ctx, c.Source.URL, c.Source.Path); err != nil {
			return err
		}
	}

	lang, err := document.FindLanguage(c.Language)
	if err != nil {
		return err
	}
	src, err := util.OpenLines(c.Source.Path)
	if err != nil {
		return err
	}
	out, err := sink.New(c.Driver)
	if err != nil {
		src.Close()
		return err
	}
	defer out.Close()

	logger.Infof("Loading %s", c.Source.Path)
	res, err := loader.Run(ctx, src, loader.Options{
		Index:      c.Index,
		Language:   lang,
		BufferSize: c.BufferSize,
		Limit:      c.Limit,
		Sink:       out,
	})
	logger.WithFields(log.Fields{
		"lines":     res.Lines,
		"documents": res.Documents,
		"skipped":   res.Skipped,
		"flushed":   res.Batch.Flushed,
		"batches":   res.Batch.Flushes,
		"elapsed":   res.Duration.String(),
	}).Info("load finished")
	if err != nil {
		logger.Errorf("load aborted: %v", err)
	}
	return err
}

func languageCodes() string {
	codes := []string{}
	for _, l := range document.Languages() {
		codes = append(codes, l.Code)
	}
	return strings.Join(codes, ", ")
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Config file")
	flags.StringVar(&conf.Source.URL, "url", conf.Source.URL, "URL of the triple dump")
	flags.StringVar(&conf.Source.Path, "path", conf.Source.Path, "Local path of the triple dump")
	flags.StringVar(&conf.Index, "index", "", "Index name")
	flags.StringVar(&conf.Language, "language", conf.Language, "Language code of the dump, one of: "+languageCodes())
	flags.IntVar(&conf.BufferSize, "buffer-size", conf.BufferSize, "Documents per batch")
	flags.IntVar(&conf.Limit, "limit", 0, "Stop after this many lines, 0 reads everything")
	flags.StringVar(&driver, "driver", "", "Driver: elastic, esv7, opensearch, bleve or kafka")
	flags.StringVar(&server, "server", "", "Search server URL (bleve: index path, kafka: brokers)")
	flags.StringVar(&login, "login", "", "Search server user")
	flags.StringVar(&key, "key", "", "Search server password")
	flags.BoolVar(&noFetch, "no-fetch", false, "Do not download the dump when it is missing")
}
