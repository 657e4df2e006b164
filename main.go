package main

import "github.com/chrisdamba/besteats/cmd"

func main() {
	cmd.Execute()
}
