package main

import "github.com/hclifford823/icecore-resampler-2018version/cmd"

func main() {
	cmd.Execute()
}
