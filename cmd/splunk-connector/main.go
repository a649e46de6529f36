package main

import (
	"github.com/venafi/splunk-connector/cmd/splunk-connector/app"
)

func main() {
	app.New().Run()
}
