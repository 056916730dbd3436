// Command ftcheck validates, summarises and lists family tree documents in the
// store selected by FAMILYTREE_* environment variables.
package main

import "familytree/internal/cli"

func main() {
	cli.Execute()
}
