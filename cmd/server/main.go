package main

import "github.com/iliyamo/healthconnect-api/cmd/server/cmd"

func main() {
	cmd.Execute()
}
