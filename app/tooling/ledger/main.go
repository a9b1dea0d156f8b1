// This program provides a command line tool for exercising the ledger
// engine without the simulator service.
package main

import "github.com/ardanlabs/ledger/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
