package main

import "github.com/hashgraph-online/media-mint-go/internal/cli"

func main() {
	cli.Execute()
}
