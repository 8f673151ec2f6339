package main

import (
	"os"

	"pc-recommender/cli"
)

func main() {
	os.Exit(cli.Execute())
}
