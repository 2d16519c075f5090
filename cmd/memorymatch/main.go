// Command memorymatch plays MemoryMatch in the terminal.
package main

import "memorymatch/internal/cli"

func main() {
	cli.Execute()
}
