package main

import "github.com/lexandro/lexindex-mcp/cli"

func main() {
	cli.Execute()
}
