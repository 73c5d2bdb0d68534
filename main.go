package main

import "dealer-sync/cmd"

func main() {
	cmd.Execute()
}
