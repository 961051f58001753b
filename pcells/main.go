// Command pcells builds parametric cells from the command line and serves
// them over HTTP.
package main

import "github.com/sarchlab/pcells/pcells/cmd"

func main() {
	cmd.Execute()
}
