package main

import "github.com/fatih/color"

var (
	colorHeader = color.New(color.FgBlue, color.Bold).SprintFunc()
	colorOk     = color.New(color.FgGreen).SprintFunc()
	colorBad    = color.New(color.FgRed, color.Bold).SprintFunc()
)
