package main

import "github.com/Mohsinsiddi/w3lottery/cmd"

func main() {
	cmd.Execute()
}
