package main

import (
	"ispcr/internal/app"
	"ispcr/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
