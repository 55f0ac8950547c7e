package main

import (
	"github.com/solarlabs-org/bundle-relayer/cmd/bundle_relayer/cmd"
)

func main() {
	cmd.Execute()
}
