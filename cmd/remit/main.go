package main

import (
	"remitnet.io/remit/cmd/remit/cmd"
)

func main() {
	cmd.Execute()
}
