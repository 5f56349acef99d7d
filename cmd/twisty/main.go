// twisty - command-line N×N×N twisty puzzle with a turn journal.
package main

import (
	"github.com/SeamusWaldron/twisty/internal/cli"
)

func main() {
	cli.Execute()
}
