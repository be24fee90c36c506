package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

type promptChoice struct {
	twoTailed  bool
	effectSize float64
}

var errAborted = errors.New("aborted")

// promptSettings asks for the tail mode, and for the effect size unless the
// caller already supplied one.
func promptSettings(haveEffect bool, effect float64) (promptChoice, error) {
	sel := promptui.Select{
		Label: "Test type",
		Items: []string{
			"Two-tailed (detect a difference in either direction)",
			"One-tailed (detect a difference in one direction)",
		},
	}
	idx, _, err := sel.Run()
	if err != nil {
		return promptChoice{}, promptErr(err)
	}

	choice := promptChoice{twoTailed: idx == 0, effectSize: effect}
	if haveEffect {
		return choice, nil
	}

	prompt := promptui.Prompt{
		Label:    "Effect size (treatment rate minus control rate)",
		Default:  "0",
		Validate: validateEffect,
	}
	raw, err := prompt.Run()
	if err != nil {
		return promptChoice{}, promptErr(err)
	}

	choice.effectSize, _ = strconv.ParseFloat(raw, 64)
	return choice, nil
}

func validateEffect(input string) error {
	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v <= -1 || v >= 1 {
		return fmt.Errorf("effect size must be between -1 and 1")
	}
	return nil
}

func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errAborted
	}
	return err
}
