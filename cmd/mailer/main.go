package main

import (
	"github.com/pixelvide/teneo-mailer/pkg/root"

	_ "github.com/pixelvide/teneo-mailer/pkg/console" // Register commands
)

func main() {
	root.Execute()
}
