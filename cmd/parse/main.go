package parse

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/loader"
	"github.com/bmeg/dbpedia-loader/ttl"
	"github.com/bmeg/dbpedia-loader/util"
	"github.com/spf13/cobra"
)

var limit = 10
var language = document.English.Code
var documents bool

// Cmd is the command line for the parse command
var Cmd = &cobra.Command{
	Use:   "parse <dump>",
	Short: "Print the triples, or documents, read from a dump",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := document.FindLanguage(language)
		if err != nil {
			return err
		}
		src, err := util.OpenLines(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		_, err = loader.Load(src, limit, func(t ttl.Triple) error {
			if !documents {
				fmt.Println(t.String())
				return nil
			}
			if doc, ok := document.Build(t, lang); ok {
				return enc.Encode(doc)
			}
			return nil
		})
		return err
	},
}

func init() {
	flags := Cmd.Flags()
	flags.IntVarP(&limit, "limit", "n", limit, "Lines to read, 0 reads everything")
	flags.StringVar(&language, "language", language, "Language code of the dump")
	flags.BoolVarP(&documents, "documents", "d", false, "Print documents as JSON instead of triples")
}
