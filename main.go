package main

import (
	"fmt"
	"os"

	"github.com/bmeg/dbpedia-loader/cmd"
	"github.com/bmeg/dbpedia-loader/log"
)

func main() {
	log.ConfigureLogger(log.DefaultLoggerConfig())
	if err := cmd.RootCmd.Execute(); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}
