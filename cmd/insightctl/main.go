package main

import "github.com/nfrund/insightboard/cmd/insightctl/cmd"

func main() {
	cmd.Execute()
}
