package main

import "github.com/zrdimetc/go-audiostream/internal/cli"

func main() {
	cli.Execute()
}
