package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rickgao/market-pricer/internal/model"
)

// errNoInput is returned when the prompt's input ends.
var errNoInput = errors.New("no input")

const menuText = `
warframe.market price adjuster
  1) Adjust sell orders
  2) Adjust buy orders
  3) Exit
`

// menuChoice maps a menu answer to a side. exit is true for option 3.
func menuChoice(answer string) (side model.OrderType, exit bool, err error) {
	switch strings.TrimSpace(answer) {
	case "1":
		return model.OrderSell, false, nil
	case "2":
		return model.OrderBuy, false, nil
	case "3", "q", "quit", "exit":
		return "", true, nil
	default:
		return "", false, fmt.Errorf("invalid choice %q", strings.TrimSpace(answer))
	}
}

// runMenu shows the menu until a valid choice is made, then runs one adjustment.
func runMenu(ctx context.Context, a *app) error {
	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, menuText)
		fmt.Fprint(a.out, "Choose an option: ")

		if !scanner.Scan() {
			return scanner.Err()
		}
		side, exit, err := menuChoice(scanner.Text())
		if err != nil {
			fmt.Fprintln(a.out, err)
			continue
		}
		if exit {
			return nil
		}

		confirm := func(prompt string) (bool, error) {
			return askYesNoScanner(scanner, a.out, prompt)
		}
		return runAdjust(ctx, a, side, "", confirm)
	}
}

// askYesNo prompts once on out and reads a single answer from in.
func askYesNo(in io.Reader, out io.Writer, prompt string) (bool, error) {
	return askYesNoScanner(bufio.NewScanner(in), out, prompt)
}

func askYesNoScanner(scanner *bufio.Scanner, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, err
		}
		return false, errNoInput
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
