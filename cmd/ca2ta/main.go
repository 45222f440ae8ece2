package main

import (
	"ca2ta/internal/app"
	"ca2ta/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
