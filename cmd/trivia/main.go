package main

import (
	"github.com/quizden/triviaroom-go/internal/cli"
)

func main() {
	cli.Execute()
}
