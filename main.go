package main

import "github.com/frahmantamala/employee-dashboard/cmd"

func main() {
	cmd.Execute()
}
