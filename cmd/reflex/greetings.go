package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var warmups = [...]string{
	"The ball is already moving. You are not.",
	"Three. Two. One. Still reading this?",
	"Average human reaction is a quarter second. Prove you are above average.",
	"The arena is empty. The ball is bored.",
	"Your best time is waiting to be beaten. By you, ideally.",
	"A duel needs two players and one keyboard. You have at least the keyboard.",
	"Blink and it moves. Don't blink.",
	"Somewhere a tennis ball is practicing its dodge.",
	"Warm up your fingers. The countdown does not wait.",
	"Fast is fine. Faster is better.",
}

func printGreeting(w io.Writer) {
	msg := warmups[rand.IntN(len(warmups))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFE651")).
		Bold(true).
		Render("REFLEX")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("Run reflex in a terminal to play, or reflex stats to see your times.")

	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
