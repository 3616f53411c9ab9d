package main

import "github.com/dl7eng/atomnet/cmd/atomnet/cmd"

func main() {
	cmd.Execute()
}
