package main

import "github.com/oshokin/zxp-packager/cmd/zxp-packager/cmd"

func main() {
	cmd.Execute()
}
