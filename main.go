package main

import "github.com/twcrone/graphql-observe/cli/cmd"

func main() {
	cmd.Execute()
}
